package service

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/repository"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// Codes raised by the services on top of the shared ones.
const (
	CodeSuperadminExists   = "SUPERADMIN_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeDuplicate          = "DUPLICATE"
)

var (
	errSuperadminExists   = apperrors.NewConflict(CodeSuperadminExists, "A superadmin already exists")
	errEmailExists        = apperrors.NewConflict(CodeEmailExists, "Email already in use")
	errInvalidCredentials = apperrors.NewUnauthorizedCode(CodeInvalidCredentials, "Invalid credentials")
)

// storeError translates repository failures for resource into DomainErrors.
func storeError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource)
	}
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		switch dup.Constraint {
		case repository.ConstraintSingleSuperadmin:
			return errSuperadminExists
		case repository.ConstraintUserEmail:
			return errEmailExists
		case repository.ConstraintClassroomName:
			return apperrors.NewConflict(CodeDuplicate, "Classroom name already exists in this school")
		case repository.ConstraintStudentNumber:
			return apperrors.NewConflict(CodeDuplicate, "Student number already exists in this school")
		}
		return apperrors.NewDomainError(CodeDuplicate, "Duplicate value", http.StatusConflict, nil)
	}
	return apperrors.NewInternalError(err)
}

// fetchPage loads one page and the total match count concurrently.
func fetchPage[T any](
	ctx context.Context,
	opts domain.ListOptions,
	list func(context.Context, domain.ListOptions) ([]T, error),
	count func(context.Context, domain.ListOptions) (int, error),
) (domain.Page[T], error) {
	opts = opts.Normalize()
	page := domain.Page[T]{Limit: opts.Limit, Offset: opts.Offset}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := list(gctx, opts)
		page.Items = items
		return err
	})
	g.Go(func() error {
		total, err := count(gctx, opts)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Page[T]{}, apperrors.NewInternalError(err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
