package orchestration

import "context"

func (o *Orchestrator) currentResponsePipeline() *responsePipeline {
	if o == nil {
		return nil
	}

	return o.responsePipeline.Load()
}

// withContextCancelHook runs onContextDone if ctx is cancelled before the
// returned channel is closed. Close the channel to disarm the hook.
func withContextCancelHook(ctx context.Context, onContextDone func()) chan struct{} {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			onContextDone()
		case <-done:
		}
	}()
	return done
}
