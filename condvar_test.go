package stk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConditionVariablePredicateLoop exercises the producer/consumer shape
// spec.md describes: the consumer must re-check its predicate in a loop
// around Wait rather than trusting a single wakeup.
func TestConditionVariablePredicateLoop(t *testing.T) {
	k := NewKernel(3, NewRoundRobinStrategy(), NewDefaultPlatform(), ModeDynamic, WithTickResolution(time.Millisecond))
	mtx := NewMutex(k)
	cond := NewConditionVariable(k)

	ready := false
	consumedCh := make(chan struct{}, 1)

	consumer := &funcTask{k: k, fn: func(svc *KernelService) {
		mtx.Lock()
		for !ready {
			cond.Wait(mtx)
		}
		mtx.Unlock()
		close(consumedCh)
	}}
	producer := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(10 * time.Millisecond)
		mtx.Lock()
		ready = true
		cond.Notify()
		mtx.Unlock()
	}}

	_, err := k.AddTask(consumer)
	require.NoError(t, err)
	_, err = k.AddTask(producer)
	require.NoError(t, err)

	require.NoError(t, k.Start())
	defer k.Stop()

	select {
	case <-consumedCh:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer never observed ready == true")
	}
}

func TestConditionVariableNotifyAllWakesEveryWaiter(t *testing.T) {
	k := NewKernel(6, NewRoundRobinStrategy(), NewDefaultPlatform(), ModeDynamic, WithTickResolution(time.Millisecond))
	mtx := NewMutex(k)
	cond := NewConditionVariable(k)

	ready := false
	doneCh := make(chan int, 5)

	for i := 0; i < 5; i++ {
		id := i
		_, err := k.AddTask(&funcTask{k: k, fn: func(svc *KernelService) {
			mtx.Lock()
			for !ready {
				cond.Wait(mtx)
			}
			mtx.Unlock()
			doneCh <- id
		}})
		require.NoError(t, err)
	}

	producer := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(10 * time.Millisecond)
		mtx.Lock()
		ready = true
		cond.NotifyAll()
		mtx.Unlock()
	}}
	_, err := k.AddTask(producer)
	require.NoError(t, err)

	require.NoError(t, k.Start())
	defer k.Stop()

	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		select {
		case id := <-doneCh:
			seen[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("not every waiter woke up")
		}
	}
	assert.Len(t, seen, 5)
}

func TestConditionVariableWaitReacquiresMutexBeforeReturning(t *testing.T) {
	k := NewKernel(2, NewRoundRobinStrategy(), NewDefaultPlatform(), ModeDynamic, WithTickResolution(time.Millisecond))
	mtx := NewMutex(k)
	cond := NewConditionVariable(k)

	ready := false
	ownedAtReturn := make(chan bool, 1)

	waiter := &funcTask{k: k, fn: func(svc *KernelService) {
		mtx.Lock()
		for !ready {
			cond.Wait(mtx)
		}
		k.mu.Lock()
		ownedAtReturn <- mtx.owner == k.callerLocked() // Wait returned with the mutex held by this task
		k.mu.Unlock()
		mtx.Unlock()
	}}
	notifier := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(5 * time.Millisecond)
		mtx.Lock()
		ready = true
		cond.Notify()
		mtx.Unlock()
	}}

	_, err := k.AddTask(waiter)
	require.NoError(t, err)
	_, err = k.AddTask(notifier)
	require.NoError(t, err)

	require.NoError(t, k.Start())
	defer k.Stop()

	select {
	case stillHeld := <-ownedAtReturn:
		assert.True(t, stillHeld)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never woke up")
	}
}
