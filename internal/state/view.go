package state

// Phase is the lifecycle position of an asynchronously loaded screen.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
	PhaseEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// View is the presentation state of one screen. Data is meaningful only in
// PhaseSuccess and Message only in PhaseError.
type View[T any] struct {
	Phase   Phase
	Data    T
	Message string
}

// Idle returns the initial view.
func Idle[T any]() View[T] { return View[T]{Phase: PhaseIdle} }

// Loading returns a view for an in-flight load.
func Loading[T any]() View[T] { return View[T]{Phase: PhaseLoading} }

// Success returns a view carrying data.
func Success[T any](data T) View[T] { return View[T]{Phase: PhaseSuccess, Data: data} }

// Failure returns an error view with a user-facing message.
func Failure[T any](message string) View[T] { return View[T]{Phase: PhaseError, Message: message} }

// Empty returns a view for a load that succeeded with nothing to show.
func Empty[T any]() View[T] { return View[T]{Phase: PhaseEmpty} }

// Resolve returns Empty when isEmpty reports true for data, else Success.
func Resolve[T any](data T, isEmpty func(T) bool) View[T] {
	if isEmpty != nil && isEmpty(data) {
		return Empty[T]()
	}
	return Success(data)
}

func (v View[T]) IsIdle() bool { return v.Phase == PhaseIdle }
func (v View[T]) IsLoading() bool { return v.Phase == PhaseLoading }
func (v View[T]) IsSuccess() bool { return v.Phase == PhaseSuccess }
func (v View[T]) IsError() bool { return v.Phase == PhaseError }
func (v View[T]) IsEmpty() bool { return v.Phase == PhaseEmpty }
