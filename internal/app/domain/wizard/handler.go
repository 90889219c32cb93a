package wizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/pkg/handoff"
)

const stateKey = "wizardState"

type Handler struct {
	logger *zap.Logger
}

func NewWizardHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

func loadState(session sessions.Session) State {
	raw := session.Get(stateKey)
	payload, ok := raw.(string)
	if !ok || payload == "" {
		return NewState()
	}
	var state State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return NewState()
	}
	if state.Step < firstStep || state.Step > lastStep {
		return NewState()
	}
	return state
}

func saveState(session sessions.Session, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	session.Set(stateKey, string(payload))
	return session.Save()
}

// GetState handles GET /api/wizard
func (h *Handler) GetState(c *gin.Context) {
	state := loadState(sessions.Default(c))
	c.JSON(http.StatusOK, gin.H{"step": state.Step, "stepName": state.Step.String(), "request": state.Request})
}

// Options handles GET /api/wizard/options
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"travelStyles": models.ValidTravelStyles,
		"interests":    models.KnownInterests,
		"moods":        models.KnownMoods,
		"languages":    models.KnownLanguages,
	})
}

// Step handles POST /api/wizard/step: applies the submitted fields to the
// current step and advances when the step's guard passes.
func (h *Handler) Step(c *gin.Context) {
	var update models.GenerationRequest
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := sessions.Default(c)
	state := loadState(session)
	state.Apply(update)

	if errs := state.Next(); len(errs) > 0 {
		// Keep the applied fields so the user does not retype them.
		if err := saveState(session, state); err != nil {
			h.logger.Error("Failed to save wizard state", zap.Error(err))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": errs, "step": state.Step})
		return
	}

	if err := saveState(session, state); err != nil {
		h.logger.Error("Failed to save wizard state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": state.Step, "stepName": state.Step.String(), "request": state.Request})
}

// Back handles POST /api/wizard/back
func (h *Handler) Back(c *gin.Context) {
	session := sessions.Default(c)
	state := loadState(session)
	state.Back()

	if err := saveState(session, state); err != nil {
		h.logger.Error("Failed to save wizard state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": state.Step, "stepName": state.Step.String(), "request": state.Request})
}

// Reset handles POST /api/wizard/reset
func (h *Handler) Reset(c *gin.Context) {
	session := sessions.Default(c)
	if err := saveState(session, NewState()); err != nil {
		h.logger.Error("Failed to reset wizard state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": firstStep, "stepName": firstStep.String()})
}

// Submit handles POST /api/wizard/submit: runs full validation, parks the
// finished request in the handoff slot for the viewer, and resets the wizard.
func (h *Handler) Submit(c *gin.Context) {
	session := sessions.Default(c)
	state := loadState(session)

	req, err := state.Submit()
	if err != nil {
		var fieldErrs models.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := handoff.Put(session, handoff.QueryKey, req); err != nil {
		h.logger.Error("Failed to hand off generation request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit"})
		return
	}
	if err := saveState(session, NewState()); err != nil {
		h.logger.Error("Failed to reset wizard state after submit", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}
