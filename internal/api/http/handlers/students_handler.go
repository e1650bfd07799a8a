package handlers

import (
	"context"

	"github.com/spec-kit/school-service/internal/api/dto"
	"github.com/spec-kit/school-service/internal/pipeline"
	"github.com/spec-kit/school-service/internal/service"
)

// StudentsHandler exposes students under /v1/schools/:schoolId.
type StudentsHandler struct {
	students *service.StudentService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(students *service.StudentService) *StudentsHandler {
	return &StudentsHandler{students: students}
}

func (h *StudentsHandler) Create(ctx context.Context, req pipeline.Request[dto.CreateStudentRequest]) (any, error) {
	student, err := h.students.Create(ctx, req.Param("schoolId"), req.Input.Input())
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(student), nil
}

func (h *StudentsHandler) List(ctx context.Context, req pipeline.Request[dto.ListQuery]) (any, error) {
	page, err := h.students.List(ctx, req.Param("schoolId"), req.Input.Options())
	if err != nil {
		return nil, err
	}
	return dto.PageOf(page, dto.NewStudentResponse), nil
}

func (h *StudentsHandler) Get(ctx context.Context, req pipeline.Request[struct{}]) (any, error) {
	student, err := h.students.Get(ctx, req.Param("schoolId"), req.Param("studentId"))
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(student), nil
}

func (h *StudentsHandler) Update(ctx context.Context, req pipeline.Request[dto.UpdateStudentRequest]) (any, error) {
	student, err := h.students.Update(ctx, req.Param("schoolId"), req.Param("studentId"), req.Input.Patch())
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(student), nil
}

func (h *StudentsHandler) Delete(ctx context.Context, req pipeline.Request[struct{}]) (any, error) {
	if err := h.students.Delete(ctx, req.Param("schoolId"), req.Param("studentId")); err != nil {
		return nil, err
	}
	return dto.DeletedResponse{Deleted: true}, nil
}

// Enroll handles POST /v1/schools/:schoolId/students/:studentId/enroll.
func (h *StudentsHandler) Enroll(ctx context.Context, req pipeline.Request[dto.EnrollRequest]) (any, error) {
	student, err := h.students.Enroll(ctx, req.Param("schoolId"), req.Param("studentId"), req.Input.ClassroomID)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(student), nil
}

// Transfer handles POST /v1/schools/:schoolId/students/:studentId/transfer.
func (h *StudentsHandler) Transfer(ctx context.Context, req pipeline.Request[dto.TransferRequest]) (any, error) {
	student, err := h.students.Transfer(ctx, *req.Principal,
		req.Param("schoolId"), req.Param("studentId"), req.Input.ToSchoolID, req.Input.ToClassroomID)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(student), nil
}
