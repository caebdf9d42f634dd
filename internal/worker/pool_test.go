package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeJob struct {
	executed int32
	finished int32
	wait     chan struct{}
}

func (j *fakeJob) Execute() {
	if j.wait != nil {
		<-j.wait
	}
	atomic.StoreInt32(&j.executed, 1)
}

func (j *fakeJob) OnFinished() {
	atomic.StoreInt32(&j.finished, 1)
}

func TestSubmitAndRetrieveFinished(t *testing.T) {
	p := NewPool(2, 4)
	defer p.CancelAll()

	job := &fakeJob{}
	if !p.Submit(job) {
		t.Fatal("submit should succeed with room in the queue")
	}

	deadline := time.After(time.Second)
	for {
		if got := p.RetrieveFinished(); got != nil {
			got.OnFinished()
			if atomic.LoadInt32(&job.finished) != 1 {
				t.Fatal("OnFinished must be observable after retrieval")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("job never completed")
		default:
		}
	}
}

func TestRetrieveFinishedNonBlockingWhenEmpty(t *testing.T) {
	p := NewPool(1, 1)
	defer p.CancelAll()

	if got := p.RetrieveFinished(); got != nil {
		t.Fatal("expected nil from an empty completion queue")
	}
}

func TestSubmitNonBlockingWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	defer p.CancelAll()

	block := &fakeJob{wait: make(chan struct{})}
	p.Submit(block) // worker picks this up and blocks in Execute

	// give the single worker a moment to claim the job so the queue is
	// actually empty, then fill it past capacity.
	time.Sleep(10 * time.Millisecond)
	if !p.Submit(&fakeJob{}) {
		t.Fatal("queue should have room for one more job")
	}
	if p.Submit(&fakeJob{}) {
		t.Fatal("submit must return false once the bounded queue is full")
	}
	close(block.wait)
}

func TestCancelAllWaitsForInFlightExecute(t *testing.T) {
	p := NewPool(1, 1)

	job := &fakeJob{wait: make(chan struct{})}
	p.Submit(job)
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.CancelAll()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("CancelAll returned before the in-flight job finished Execute")
	case <-time.After(20 * time.Millisecond):
	}

	close(job.wait)
	<-done

	if atomic.LoadInt32(&job.executed) != 1 {
		t.Fatal("in-flight job must run Execute to completion before CancelAll returns")
	}
}
