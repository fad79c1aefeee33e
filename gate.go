package chatguard

import "context"

// Predicate decides whether a request may proceed. It returns an error when
// the decision could not be made; ErrUnknownActor when it needs an actor
// and the request has none.
type Predicate func(ctx context.Context, req *Request) (bool, error)

// Operation is a guarded operation producing a result.
type Operation[T any] func(ctx context.Context, req *Request) (T, error)

// Handler is a guarded operation without a result.
type Handler func(ctx context.Context, req *Request) error

// Gate wraps op so that it only runs when p holds.
//
//   - p true: op is invoked once and its result returned.
//   - p false: policy acts on the request and ErrDenied is returned; op is
//     not invoked.
//   - p failed: the error is returned as is; policy does not act and op is
//     not invoked.
//   - unknown actor: with a policy built by IgnoreUnknownActor nothing
//     happens and ErrUnknownActor is returned; otherwise it is a denial.
//
// Example:
//
//	ban := chatguard.Gate(resolver.RequireUserCanBan(), chatguard.Reply("You can't ban people here."), banUser)
//	result, err := ban(ctx, req)
//	if chatguard.IsDenied(err) {
//	    // denial already handled by the policy
//	}
func Gate[T any](p Predicate, policy Policy, op Operation[T]) Operation[T] {
	return func(ctx context.Context, req *Request) (T, error) {
		if err := Check(ctx, p, policy, req); err != nil {
			var zero T
			return zero, err
		}
		return op(WithRequest(ctx, req), req)
	}
}

// GateHandler is Gate for operations without a result.
func GateHandler(p Predicate, policy Policy, h Handler) Handler {
	return func(ctx context.Context, req *Request) error {
		if err := Check(ctx, p, policy, req); err != nil {
			return err
		}
		return h(WithRequest(ctx, req), req)
	}
}

// Check evaluates p for req and applies policy on denial. It returns nil
// when the request may proceed, and otherwise the same errors as Gate.
func Check(ctx context.Context, p Predicate, policy Policy, req *Request) error {
	ok, err := p(ctx, req)
	if IsUnknownActor(err) {
		if policy.ignoreUnknownActor {
			return err
		}
		ok, err = false, nil
	}
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return policy.Deny(ctx, req)
}

// Always returns a predicate with a fixed answer.
func Always(allow bool) Predicate {
	return func(context.Context, *Request) (bool, error) {
		return allow, nil
	}
}

// Not inverts p. Errors, including ErrUnknownActor, pass through.
func Not(p Predicate) Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		ok, err := p(ctx, req)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// Any holds if one of ps holds. Predicates run in order and the first error
// stops the evaluation.
func Any(ps ...Predicate) Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		for _, p := range ps {
			ok, err := p(ctx, req)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

// All holds if every one of ps holds. Predicates run in order and the first
// error or false stops the evaluation.
func All(ps ...Predicate) Predicate {
	return func(ctx context.Context, req *Request) (bool, error) {
		for _, p := range ps {
			ok, err := p(ctx, req)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}
