package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type profileService interface {
	GetMemberByUID(ctx context.Context, uid string) (*models.MemberProfile, error)
	GetCoachByUID(ctx context.Context, uid string) (*models.CoachProfile, error)
	UpdateMember(ctx context.Context, actorID int64, uid string, input services.UpdateMemberProfileInput) (*models.MemberProfile, error)
	UpdateCoach(ctx context.Context, actorID int64, uid string, input services.UpdateCoachProfileInput) (*models.CoachProfile, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
}

type ProfileHandler struct {
	profiles profileService
	storage  services.StorageService
	log      *logrus.Logger
}

func NewProfileHandler(profiles profileService, storage services.StorageService, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, storage: storage, log: log}
}

func (h *ProfileHandler) GetMember(c *fiber.Ctx) error {
	profile, err := h.profiles.GetMemberByUID(c.Context(), c.Params("uid"))
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) GetCoach(c *fiber.Ctx) error {
	profile, err := h.profiles.GetCoachByUID(c.Context(), c.Params("uid"))
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UpdateMember handles the client's multipart PUT: an optional info part, an
// optional skills part and an optional replacement picture.
func (h *ProfileHandler) UpdateMember(c *fiber.Ctx) error {
	actorID, err := actorUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expected multipart form"})
	}

	var input services.UpdateMemberProfileInput
	if values := form.Value["memberInfoJson"]; len(values) > 0 {
		var info updateProfileInfoJSON
		if err := json.Unmarshal([]byte(values[0]), &info); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "memberInfoJson is not valid JSON"})
		}
		if msg := validateProfileInfoUpdate(info); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		input.Profile = repository.UpdateMemberProfileInput{
			FirstName: info.FirstName,
			LastName:  info.LastName,
			Phone:     info.Phone,
			Biography: info.Biography,
			Location:  info.Location,
		}
	}
	if values := form.Value["skillsJson"]; len(values) > 0 {
		if err := json.Unmarshal([]byte(values[0]), &input.SkillIDs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "skillsJson is not valid JSON"})
		}
	}

	picURL, err := h.uploadReplacementPic(c, form, actorID)
	if err != nil {
		h.log.WithError(err).Warn("profile picture upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to store profile picture"})
	}
	input.Profile.ProfilePicURL = picURL

	profile, err := h.profiles.UpdateMember(c.Context(), actorID, c.Params("uid"), input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateCoach(c *fiber.Ctx) error {
	actorID, err := actorUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expected multipart form"})
	}

	var input services.UpdateCoachProfileInput
	if values := form.Value["coachInfoJson"]; len(values) > 0 {
		var info updateProfileInfoJSON
		if err := json.Unmarshal([]byte(values[0]), &info); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coachInfoJson is not valid JSON"})
		}
		if msg := validateProfileInfoUpdate(info); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		input.Profile = repository.UpdateCoachProfileInput{
			FirstName: info.FirstName,
			LastName:  info.LastName,
			Phone:     info.Phone,
			Biography: info.Biography,
			Location:  info.Location,
		}
	}
	if values := form.Value["skillsJson"]; len(values) > 0 {
		var rawSkills []coachSkillJSON
		if err := json.Unmarshal([]byte(values[0]), &rawSkills); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "skillsJson is not valid JSON"})
		}
		input.Skills = make([]repository.CoachSkillInput, 0, len(rawSkills))
		for _, skill := range rawSkills {
			input.Skills = append(input.Skills, repository.CoachSkillInput{
				SkillID:     skill.SkillID,
				Proficiency: skill.Proficiency,
			})
		}
	}

	picURL, err := h.uploadReplacementPic(c, form, actorID)
	if err != nil {
		h.log.WithError(err).Warn("profile picture upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to store profile picture"})
	}
	input.Profile.ProfilePicURL = picURL

	profile, err := h.profiles.UpdateCoach(c.Context(), actorID, c.Params("uid"), input)
	if err != nil {
		return mapProfileError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// ListSkills serves the catalog the clients build their pickers from.
func (h *ProfileHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.profiles.ListSkills(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch skills"})
	}
	return c.JSON(fiber.Map{"skills": skills})
}

func (h *ProfileHandler) uploadReplacementPic(c *fiber.Ctx, form *multipart.Form, userID int64) (*string, error) {
	files := form.File["profilePic"]
	if len(files) == 0 || h.storage == nil {
		return nil, nil
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	filename := fmt.Sprintf("%d-%d-%s", userID, time.Now().Unix(), files[0].Filename)
	url, err := h.storage.UploadFile(c.Context(), file, filename, "profile-pics")
	if err != nil {
		return nil, err
	}
	return &url, nil
}

func mapProfileError(c *fiber.Ctx, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process profile"})
	}
}
