package usecase

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"golang.org/x/xerrors"
)

type compensation struct {
	name string
	fn   func() error
}

// undoLog collects the inverse of every collaborator call made inside one operation
type undoLog struct {
	steps []compensation
}

func (u *undoLog) add(name string, fn func() error) {
	u.steps = append(u.steps, compensation{name, fn})
}

// rollback runs the compensations in reverse order. It keeps going after a failure so that as
// much as possible is returned, and reports ErrCompensationFailed if anything is left stranded.
func (u *undoLog) rollback(c ctx.Ctx, cause error) error {
	failed := []string{}
	for i := len(u.steps) - 1; i >= 0; i-- {
		step := u.steps[i]
		if err := step.fn(); err != nil {
			c.WithFields(log.Fields{
				"err":   err,
				"step":  step.name,
				"cause": cause,
			}).Error("compensation failed")
			failed = append(failed, step.name)
		}
	}
	u.steps = nil

	if len(failed) > 0 {
		return xerrors.Errorf("%v, stranded %v: %w", cause, failed, domain.ErrCompensationFailed)
	}
	return cause
}

func errCategory(err error) string {
	switch {
	case xerrors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case xerrors.Is(err, domain.ErrPreconditionViolated):
		return "precondition"
	case xerrors.Is(err, domain.ErrCollaboratorFailure):
		return "collaborator"
	default:
		return "internal"
	}
}
