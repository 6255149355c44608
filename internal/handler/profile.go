package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pathwise/pathwise/internal/ctxkeys"
	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

type profileResponse struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	Industry        string `json:"industry"`
	ExperienceYears int    `json:"experience_years"`
	Skills          string `json:"skills"`
	CareerGoals     string `json:"career_goals"`
}

func profileJSON(p *model.Profile) profileResponse {
	return profileResponse{
		Name:            p.Name,
		Role:            p.Role,
		Industry:        p.Industry,
		ExperienceYears: p.ExperienceYears,
		Skills:          p.Skills,
		CareerGoals:     p.CareerGoals,
	}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())
	writeJSON(w, http.StatusOK, profileJSON(profile))
}

type updateProfileRequest struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	Industry        string `json:"industry"`
	ExperienceYears int    `json:"experience_years"`
	Skills          string `json:"skills"`
	CareerGoals     string `json:"career_goals"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	err := h.profileService.Update(user.ID, &model.Profile{
		Name:            req.Name,
		Role:            req.Role,
		Industry:        req.Industry,
		ExperienceYears: req.ExperienceYears,
		Skills:          req.Skills,
		CareerGoals:     req.CareerGoals,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "profile not found")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_PROFILE", err.Error())
		return
	}

	profile, err := h.profileService.ByUserID(user.ID)
	if err != nil {
		slog.Error("failed to reload profile", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, profileJSON(profile))
}
