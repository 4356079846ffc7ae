// Command stkdemo runs four tasks under the round-robin switch strategy
// for a few seconds and prints how many times each got to run, a quick
// sanity check that the scheduler is actually rotating fairly.
package main

import (
	"flag"
	"fmt"
	"sync/atomic"
	"time"

	stk "github.com/dmitrykos/stk-sub000"
)

type counterTask struct {
	name string
	runs atomic.Int64
	k    *stk.Kernel
}

func (t *counterTask) Entry(arg any) {
	svc := t.k.Service()
	for {
		t.runs.Add(1)
		svc.Sleep(5 * time.Millisecond)
	}
}

func (t *counterTask) UserData() any              { return t.name }
func (t *counterTask) AccessMode() stk.AccessMode { return stk.AccessUser }

func main() {
	duration := flag.Duration("duration", 2*time.Second, "how long to let the demo kernel run")
	flag.Parse()

	k := stk.NewKernel(8, stk.NewRoundRobinStrategy(), stk.NewDefaultPlatform(), stk.ModeDynamic,
		stk.WithTickResolution(time.Millisecond))

	tasks := make([]*counterTask, 4)
	for i := range tasks {
		t := &counterTask{name: fmt.Sprintf("task-%d", i), k: k}
		tasks[i] = t
		if _, err := k.AddTask(t); err != nil {
			panic(err)
		}
	}

	if err := k.Start(); err != nil {
		panic(err)
	}

	time.Sleep(*duration)
	_ = k.Stop()

	for _, t := range tasks {
		fmt.Printf("%s: %d runs\n", t.name, t.runs.Load())
	}
}
