package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/email"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
	"github.com/vitalagenda/vital-api/pkg/logger"
)

type Service struct {
	apptRepo repository.AppointmentRepository
	userRepo repository.UserRepository
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(apptRepo repository.AppointmentRepository, userRepo repository.UserRepository, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		apptRepo: apptRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// Create books an appointment for the calling patient. Double-booking a
// doctor slot is prevented by the storage unique index, not by an
// application-level pre-check.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, callerRole model.Role, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if callerRole != model.RolePatient {
		return nil, apperror.Forbidden("only patients can book appointments")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperror.Validation("reason is required")
	}
	if !req.ScheduledAt.After(time.Now()) {
		return nil, apperror.Validation("scheduled time must be in the future")
	}

	doctor, err := s.userRepo.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation("doctor does not exist")
		}
		return nil, apperror.Internal(err)
	}
	if doctor.Role != model.RoleDoctor {
		return nil, apperror.Validation("doctor does not exist")
	}

	appt := &model.Appointment{
		PatientID:    callerID,
		DoctorID:     req.DoctorID,
		LaboratoryID: req.LaboratoryID,
		ScheduledAt:  req.ScheduledAt,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       model.AppointmentStatusPending,
	}

	if err := s.apptRepo.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("the doctor already has an appointment at that time")
		}
		return nil, apperror.Internal(err)
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, callerID uuid.UUID, callerRole model.Role, scope model.AppointmentScope) ([]*model.AppointmentRow, error) {
	rows, err := s.apptRepo.ListForUser(ctx, callerID, callerRole, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

// Get returns an appointment only to its patient or doctor. Anything
// else is reported as not found, never as forbidden.
func (s *Service) Get(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.apptRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}
	if appt.PatientID != callerID && appt.DoctorID != callerID {
		return nil, apperror.NotFound("appointment")
	}
	return appt, nil
}

// UpdateStatus applies a role-guarded status transition. Patients may
// cancel their own appointments; doctors may confirm, cancel or reject
// appointments assigned to them.
func (s *Service) UpdateStatus(ctx context.Context, callerID uuid.UUID, callerRole model.Role, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() || status == model.AppointmentStatusPending {
		return nil, apperror.Validation("invalid target status")
	}

	appt, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	// Cancelling twice is an idempotent success.
	if appt.Status == model.AppointmentStatusCancelled && status == model.AppointmentStatusCancelled {
		return appt, nil
	}

	// Confirmation is only reachable from pending; a cancelled or
	// rejected appointment is never revived.
	if status == model.AppointmentStatusConfirmed && appt.Status != model.AppointmentStatusPending {
		return nil, apperror.Conflict("the appointment is no longer pending")
	}

	if err := s.authorizeTransition(callerID, callerRole, appt, status); err != nil {
		return nil, err
	}

	evt, err := s.statusEvent(appt, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.apptRepo.UpdateStatusWithEvent(ctx, id, status, evt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("the doctor already has an appointment at that time")
		}
		return nil, apperror.Internal(err)
	}

	appt.Status = status
	s.notifyCounterparty(ctx, appt, callerID)
	return appt, nil
}

func (s *Service) authorizeTransition(callerID uuid.UUID, callerRole model.Role, appt *model.Appointment, status model.AppointmentStatus) error {
	switch callerRole {
	case model.RolePatient:
		if appt.PatientID == callerID && status == model.AppointmentStatusCancelled {
			return nil
		}
	case model.RoleDoctor:
		if appt.DoctorID != callerID {
			break
		}
		switch status {
		case model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled, model.AppointmentStatusRejected:
			return nil
		}
	}
	return apperror.Forbidden("you cannot apply this status change")
}

func (s *Service) statusEvent(appt *model.Appointment, status model.AppointmentStatus) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"appointment_id": appt.ID,
		"patient_id":     appt.PatientID,
		"doctor_id":      appt.DoctorID,
		"scheduled_at":   appt.ScheduledAt,
		"old_status":     appt.Status,
		"new_status":     status,
	})
	if err != nil {
		return nil, err
	}
	return &model.OutboxEvent{
		EventType: model.EventAppointmentStatusChanged,
		Payload:   payload,
	}, nil
}

// notifyCounterparty emails the other party about the status change.
// Best effort: delivery failures are logged, never surfaced.
func (s *Service) notifyCounterparty(ctx context.Context, appt *model.Appointment, callerID uuid.UUID) {
	recipientID := appt.PatientID
	if callerID == appt.PatientID {
		recipientID = appt.DoctorID
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		s.logger.Error(err, "failed to load notification recipient",
			"appointment_id", appt.ID.String())
		return
	}

	if err := s.emailSvc.SendAppointmentStatus(ctx, recipient.Email, recipient.FullName(), appt.ScheduledAt, string(appt.Status)); err != nil {
		s.logger.Error(err, "failed to send appointment status email",
			"appointment_id", appt.ID.String())
	}
}
