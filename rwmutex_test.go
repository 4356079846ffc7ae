package stk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRWMutexAllowsConcurrentReaders(t *testing.T) {
	k := NewKernel(3, NewRoundRobinStrategy(), NewDefaultPlatform(), ModeDynamic, WithTickResolution(time.Millisecond))
	rw := NewRWMutex(k)
	bothHeldCh := make(chan bool, 1)

	r1 := &funcTask{k: k, fn: func(svc *KernelService) {
		rw.RLock()
		svc.Sleep(20 * time.Millisecond)
		rw.RUnlock()
	}}
	r2 := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(5 * time.Millisecond)
		rw.RLock()
		k.mu.Lock()
		bothHeldCh <- rw.activeReaders == 2
		k.mu.Unlock()
		rw.RUnlock()
	}}

	_, err := k.AddTask(r1)
	require.NoError(t, err)
	_, err = k.AddTask(r2)
	require.NoError(t, err)

	require.NoError(t, k.Start())
	defer k.Stop()

	select {
	case got := <-bothHeldCh:
		assert.True(t, got)
	case <-time.After(5 * time.Second):
		t.Fatal("second reader never observed both readers active")
	}
}

func TestRWMutexWriterExcludesReaders(t *testing.T) {
	k := NewKernel(3, NewRoundRobinStrategy(), NewDefaultPlatform(), ModeDynamic, WithTickResolution(time.Millisecond))
	rw := NewRWMutex(k)
	readerBlockedUntilCh := make(chan bool, 1)

	writer := &funcTask{k: k, fn: func(svc *KernelService) {
		rw.Lock()
		svc.Sleep(20 * time.Millisecond)
		rw.Unlock()
	}}
	reader := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(5 * time.Millisecond)
		readerBlockedUntilCh <- rw.RLockTimeout(3*time.Millisecond) != nil
		rw.RLock()
		rw.RUnlock()
	}}

	_, err := k.AddTask(writer)
	require.NoError(t, err)
	_, err = k.AddTask(reader)
	require.NoError(t, err)

	require.NoError(t, k.Start())
	defer k.Stop()

	select {
	case timedOut := <-readerBlockedUntilCh:
		assert.True(t, timedOut, "reader should have timed out while the writer held the lock")
	case <-time.After(5 * time.Second):
		t.Fatal("reader never ran")
	}
}

func TestRWMutexWriterPriorityOverNewReaders(t *testing.T) {
	k := NewKernel(4, NewRoundRobinStrategy(), NewDefaultPlatform(), ModeDynamic, WithTickResolution(time.Millisecond))
	rw := NewRWMutex(k)

	var order []string
	orderCh := make(chan string, 2)

	holder := &funcTask{k: k, fn: func(svc *KernelService) {
		rw.RLock()
		svc.Sleep(10 * time.Millisecond)
		rw.RUnlock()
	}}
	writer := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(2 * time.Millisecond)
		rw.Lock()
		orderCh <- "writer"
		rw.Unlock()
	}}
	lateReader := &funcTask{k: k, fn: func(svc *KernelService) {
		svc.Sleep(4 * time.Millisecond)
		rw.RLock()
		orderCh <- "reader"
		rw.RUnlock()
	}}

	_, err := k.AddTask(holder)
	require.NoError(t, err)
	_, err = k.AddTask(writer)
	require.NoError(t, err)
	_, err = k.AddTask(lateReader)
	require.NoError(t, err)

	require.NoError(t, k.Start())
	defer k.Stop()

	for i := 0; i < 2; i++ {
		select {
		case v := <-orderCh:
			order = append(order, v)
		case <-time.After(5 * time.Second):
			t.Fatal("writer/reader never got the lock")
		}
	}

	assert.Equal(t, []string{"writer", "reader"}, order)
}
