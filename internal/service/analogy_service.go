package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/cache"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalogyService owns the generation pipeline and the lecturer review
// workflow over AnalogySet records.
type AnalogyService interface {
	Generate(ctx context.Context, req dto.GenerateAnalogiesRequest, ownerRole string) (*dto.GenerateAnalogiesResponse, error)
	GetForLecturer(id uint) (*dto.AnalogySetDTO, error)
	ListForLecturer() ([]dto.AnalogySetDTO, error)
	GetForStudent(id, studentID uint) (*dto.AnalogySetDTO, error)
	ListApprovedForStudent(moduleCode string, studentID uint) ([]dto.AnalogySetDTO, error)
	Approve(id uint) (*dto.AnalogySetDTO, error)
	RequestChanges(id uint) (*dto.AnalogySetDTO, error)
	UpdateFeedback(id uint, req dto.UpdateFeedbackRequest) (*dto.AnalogySetDTO, error)
	Regenerate(ctx context.Context, id uint) (*dto.AnalogySetDTO, error)
	RecordInteraction(id, studentID uint, kind string) error
}

type analogyService struct {
	sets        repository.AnalogySetRepository
	modules     repository.ModuleRepository
	enrollments repository.EnrollmentRepository
	generator   GeneratorService
	cache       *cache.Cache
}

func NewAnalogyService(
	sets repository.AnalogySetRepository,
	modules repository.ModuleRepository,
	enrollments repository.EnrollmentRepository,
	generator GeneratorService,
	c *cache.Cache,
) AnalogyService {
	return &analogyService{
		sets:        sets,
		modules:     modules,
		enrollments: enrollments,
		generator:   generator,
		cache:       c,
	}
}

// Generate runs the pipeline: validate, persist a processing row, call the
// external generator, then settle the row to ready or failed. The processing
// row is durable before the external call so failures always leave a trace.
func (s *analogyService) Generate(ctx context.Context, req dto.GenerateAnalogiesRequest, ownerRole string) (*dto.GenerateAnalogiesResponse, error) {
	concept := strings.TrimSpace(req.Concept)
	notes := strings.TrimSpace(req.Notes)
	if concept == "" {
		return nil, apperr.Validation("concept is required")
	}
	if notes == "" {
		return nil, apperr.Validation("notes is required")
	}

	var moduleID *uint
	if req.ModuleCode != "" {
		module, err := s.modules.FindByCode(strings.ToUpper(req.ModuleCode))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("module not found")
			}
			return nil, apperr.Internal("failed to resolve module", err)
		}
		moduleID = &module.ID
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = concept
	}

	set := &model.AnalogySet{
		Title:        title,
		Status:       model.GenerationProcessing,
		ReviewStatus: model.ReviewDraft,
		OwnerRole:    ownerRole,
		Source:       "concept",
		SourceText:   concept,
		ModuleID:     moduleID,
	}
	if err := s.sets.Create(set); err != nil {
		return nil, apperr.Internal("failed to create analogy set", err)
	}

	entry, genErr := s.generator.GenerateAnalogy(ctx, concept, notes)
	if genErr != nil {
		s.settleFailed(set, genErr)
		return &dto.GenerateAnalogiesResponse{ID: set.ID, Status: set.Status}, nil
	}

	if err := s.settleReady(set, []model.TopicEntry{*entry}); err != nil {
		s.settleFailed(set, err)
	}
	return &dto.GenerateAnalogiesResponse{ID: set.ID, Status: set.Status}, nil
}

func (s *analogyService) settleReady(set *model.AnalogySet, topics []model.TopicEntry) error {
	data, err := json.Marshal(topics)
	if err != nil {
		return apperr.Internal("failed to encode topics", err)
	}
	set.Status = model.GenerationReady
	set.TopicsJSON = datatypes.JSON(data)
	set.ErrorMessage = ""
	if err := s.sets.Update(set); err != nil {
		return apperr.Internal("failed to persist generation result", err)
	}
	return nil
}

// settleFailed best-effort records a failure on the owning row. A failure
// while recording is logged and swallowed so the original error is the one
// that surfaces.
func (s *analogyService) settleFailed(set *model.AnalogySet, cause error) {
	set.Status = model.GenerationFailed
	set.ErrorMessage = cause.Error()
	if err := s.sets.Update(set); err != nil {
		log.Error().Err(err).Uint("setID", set.ID).Msg("Failed to record generation failure")
	}
}

func (s *analogyService) GetForLecturer(id uint) (*dto.AnalogySetDTO, error) {
	set, err := s.findSet(id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(set, true)
}

func (s *analogyService) ListForLecturer() ([]dto.AnalogySetDTO, error) {
	sets, err := s.sets.FindAll()
	if err != nil {
		return nil, apperr.Internal("failed to list analogy sets", err)
	}
	out := make([]dto.AnalogySetDTO, 0, len(sets))
	for i := range sets {
		d, err := s.toDTO(&sets[i], true)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// GetForStudent enforces the visibility rule on every student read:
// status=ready, reviewStatus=APPROVED, and an ACTIVE enrollment in the
// set's module. Anything else is not-found, never forbidden, so existence
// does not leak.
func (s *analogyService) GetForStudent(id, studentID uint) (*dto.AnalogySetDTO, error) {
	set := &model.AnalogySet{}
	hit, err := s.cache.Get(cache.AnalogySetKey(id), set)
	if err != nil {
		log.Warn().Err(err).Uint("setID", id).Msg("Analogy cache read failed")
		hit = false
	}
	if !hit {
		set, err = s.findSet(id)
		if err != nil {
			return nil, err
		}
		if set.Status == model.GenerationReady && set.ReviewStatus == model.ReviewApproved {
			if err := s.cache.Set(cache.AnalogySetKey(id), set); err != nil {
				log.Warn().Err(err).Uint("setID", id).Msg("Analogy cache write failed")
			}
		}
	}

	visible, err := s.visibleToStudent(set, studentID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apperr.NotFound("not found")
	}
	return s.toDTO(set, false)
}

func (s *analogyService) ListApprovedForStudent(moduleCode string, studentID uint) ([]dto.AnalogySetDTO, error) {
	module, err := s.modules.FindByCode(strings.ToUpper(moduleCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not found")
		}
		return nil, apperr.Internal("failed to resolve module", err)
	}
	active, err := s.enrollments.HasActive(module.ID, studentID)
	if err != nil {
		return nil, apperr.Internal("failed to check enrollment", err)
	}
	if !active {
		return nil, apperr.NotFound("not found")
	}
	sets, err := s.sets.FindApprovedByModule(module.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list analogy sets", err)
	}
	out := make([]dto.AnalogySetDTO, 0, len(sets))
	for i := range sets {
		d, err := s.toDTO(&sets[i], false)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *analogyService) Approve(id uint) (*dto.AnalogySetDTO, error) {
	set, err := s.findSet(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	set.ReviewStatus = model.ReviewApproved
	set.ApprovedAt = &now
	return s.saveAndInvalidate(set)
}

func (s *analogyService) RequestChanges(id uint) (*dto.AnalogySetDTO, error) {
	set, err := s.findSet(id)
	if err != nil {
		return nil, err
	}
	set.ReviewStatus = model.ReviewChanges
	set.ApprovedAt = nil
	return s.saveAndInvalidate(set)
}

// UpdateFeedback persists lecturer-only feedback text onto topic entries.
// Review status is untouched.
func (s *analogyService) UpdateFeedback(id uint, req dto.UpdateFeedbackRequest) (*dto.AnalogySetDTO, error) {
	set, err := s.findSet(id)
	if err != nil {
		return nil, err
	}
	topics, err := decodeTopics(set)
	if err != nil {
		return nil, err
	}
	for _, entry := range req.Entries {
		if entry.Index < 0 || entry.Index >= len(topics) {
			return nil, apperr.Validation("feedback index out of range")
		}
		topics[entry.Index].Feedback = entry.Feedback
	}
	data, err := json.Marshal(topics)
	if err != nil {
		return nil, apperr.Internal("failed to encode topics", err)
	}
	set.TopicsJSON = datatypes.JSON(data)
	return s.saveAndInvalidate(set)
}

// Regenerate re-runs generation for an existing set and replaces its topic
// content. Review status is deliberately left alone: approved content stays
// approved even after regeneration, matching the observed product behavior.
// A generator failure surfaces as an error without touching the row; a ready
// set never transitions back to failed, so approved content stays visible
// through a transient upstream outage.
func (s *analogyService) Regenerate(ctx context.Context, id uint) (*dto.AnalogySetDTO, error) {
	set, err := s.findSet(id)
	if err != nil {
		return nil, err
	}
	topics, err := decodeTopics(set)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, apperr.Validation("nothing to regenerate")
	}

	for i := range topics {
		entry, genErr := s.generator.GenerateAnalogy(ctx, topics[i].Topic, set.SourceText)
		if genErr != nil {
			log.Warn().Err(genErr).Uint("setID", set.ID).Msg("Regeneration failed, keeping existing content")
			return nil, genErr
		}
		// Feedback survives regeneration; only the analogy text changes.
		topics[i].Analogy = entry.Analogy
	}

	if err := s.settleReady(set, topics); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(cache.AnalogySetKey(set.ID)); err != nil {
		log.Warn().Err(err).Uint("setID", set.ID).Msg("Analogy cache invalidation failed")
	}
	return s.toDTO(set, true)
}

func (s *analogyService) RecordInteraction(id, studentID uint, kind string) error {
	set, err := s.findSet(id)
	if err != nil {
		return err
	}
	visible, err := s.visibleToStudent(set, studentID)
	if err != nil {
		return err
	}
	if !visible {
		return apperr.NotFound("not found")
	}
	if kind == model.InteractionLike {
		exists, err := s.sets.HasInteraction(id, studentID, kind)
		if err != nil {
			return apperr.Internal("failed to check interaction", err)
		}
		if exists {
			return nil // one LIKE per student per set
		}
	}
	interaction := &model.AnalogyInteraction{AnalogySetID: id, UserID: studentID, Kind: kind}
	if err := s.sets.CreateInteraction(interaction); err != nil {
		return apperr.Internal("failed to record interaction", err)
	}
	return nil
}

func (s *analogyService) findSet(id uint) (*model.AnalogySet, error) {
	set, err := s.sets.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not found")
		}
		return nil, apperr.Internal("failed to load analogy set", err)
	}
	return set, nil
}

func (s *analogyService) saveAndInvalidate(set *model.AnalogySet) (*dto.AnalogySetDTO, error) {
	if err := s.sets.Update(set); err != nil {
		return nil, apperr.Internal("failed to update analogy set", err)
	}
	if err := s.cache.Delete(cache.AnalogySetKey(set.ID)); err != nil {
		log.Warn().Err(err).Uint("setID", set.ID).Msg("Analogy cache invalidation failed")
	}
	return s.toDTO(set, true)
}

func (s *analogyService) visibleToStudent(set *model.AnalogySet, studentID uint) (bool, error) {
	if set.Status != model.GenerationReady || set.ReviewStatus != model.ReviewApproved || set.ModuleID == nil {
		return false, nil
	}
	active, err := s.enrollments.HasActive(*set.ModuleID, studentID)
	if err != nil {
		return false, apperr.Internal("failed to check enrollment", err)
	}
	return active, nil
}

func decodeTopics(set *model.AnalogySet) ([]model.TopicEntry, error) {
	if len(set.TopicsJSON) == 0 {
		return nil, nil
	}
	var topics []model.TopicEntry
	if err := json.Unmarshal(set.TopicsJSON, &topics); err != nil {
		return nil, apperr.Internal("failed to decode topics", err)
	}
	return topics, nil
}

// toDTO maps a set to its response shape. Lecturer-only feedback is stripped
// on the student-facing variant.
func (s *analogyService) toDTO(set *model.AnalogySet, includeFeedback bool) (*dto.AnalogySetDTO, error) {
	var resp dto.AnalogySetDTO
	if err := copier.Copy(&resp, set); err != nil {
		return nil, apperr.Internal("failed to map analogy set", err)
	}
	topics, err := decodeTopics(set)
	if err != nil {
		return nil, err
	}
	resp.Topics = make([]dto.TopicDTO, 0, len(topics))
	for _, t := range topics {
		d := dto.TopicDTO{Topic: t.Topic, Analogy: t.Analogy}
		if includeFeedback {
			d.Feedback = t.Feedback
		}
		resp.Topics = append(resp.Topics, d)
	}
	if !includeFeedback {
		resp.ErrorMessage = ""
		resp.SourceText = ""
	}
	return &resp, nil
}
