// Command nkdemo exercises the scheduler end-to-end: one fiber works through
// a few yielding steps, incrementing a shared counter under a mutex, and then
// receives a greeting that a second fiber sends it over a port, while a DPC
// does its one-shot thing on the side.
package main

import (
	"fmt"

	"github.com/cfallin/nk"
)

func main() {
	host, err := nk.NewHost()
	if err != nil {
		panic(err)
	}

	counter := 0
	mu, _ := host.CreateMutex()
	port, _ := host.CreatePort(nk.PortFiber)

	pingpong := func(self *nk.Fiber, data any) {
		name := data.(string)
		for i := 0; i < 3; i++ {
			fmt.Printf("  %s: working step %d\n", name, i+1)
			self.Yield()

			mu.Lock()
			counter++
			mu.Unlock()
		}

		msg, err := port.Recv()
		if err != nil {
			fmt.Printf("  %s: recv error: %v\n", name, err)
			return
		}
		fmt.Printf("  %s: received %v from the sender fiber\n", name, msg.Data1)
		msg.Destroy()
	}

	sender := func(self *nk.Fiber, data any) {
		self.Yield()
		fmt.Println("  sender: delivering a greeting")
		if err := port.Send(nil, "hello from the sender fiber", nil); err != nil {
			fmt.Printf("  sender: send error: %v\n", err)
		}
	}

	_, _ = host.CreateFiber(pingpong, "fiber-A", nil)
	_, _ = host.CreateFiber(sender, nil, nil)

	_, _ = host.CreateDPC(func(self *nk.DPC, data any) {
		fmt.Println("  dpc: one-shot work done")
	}, nil, nil)

	fmt.Println("nkdemo: running 2 workers")
	if err := host.Run(2); err != nil {
		panic(err)
	}

	fmt.Printf("nkdemo: done, counter=%d\n", counter)

	if err := host.Destroy(); err != nil {
		panic(err)
	}
}
