package core

import "context"

// CallController is the call-control collaborator. The telephony layer
// implements it against the platform in use; the action executor drives it
// when processing transfer/end/hold/play actions.
type CallController interface {
	Answer(ctx context.Context, callID string) error
	Transfer(ctx context.Context, callID, destination string) error
	End(ctx context.Context, callID string) error
	Hold(ctx context.Context, callID string, hold bool) error
	PlayAudio(ctx context.Context, callID, audioRef string) error

	// RequestOperator hands the call to a human in the named department.
	RequestOperator(ctx context.Context, callID, department string, priority int) error
}
