package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
	"github.com/benjamintowle04/ua-backend/internal/services"
)

type onboardingService interface {
	CompleteMemberOnboarding(ctx context.Context, userID int64, input services.MemberOnboardingInput) (*models.MemberProfile, error)
	CompleteCoachOnboarding(ctx context.Context, userID int64, input services.CoachOnboardingInput) (*models.CoachProfile, error)
}

// OnboardingHandler consumes the mobile client's multipart form: a JSON info
// part, a JSON skills part and an optional profile picture.
type OnboardingHandler struct {
	profiles onboardingService
	storage  services.StorageService
	log      *logrus.Logger
}

func NewOnboardingHandler(profiles onboardingService, storage services.StorageService, log *logrus.Logger) *OnboardingHandler {
	return &OnboardingHandler{profiles: profiles, storage: storage, log: log}
}

type profileInfoJSON struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Biography string `json:"biography"`
	Location  string `json:"location"`
}

type coachSkillJSON struct {
	SkillID     int64  `json:"skill_id"`
	Proficiency string `json:"proficiency"`
}

// Complete routes POST /api/onboarding by the token's role.
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	userID, err := actorUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expected multipart form"})
	}

	picURL, err := h.uploadProfilePic(c, form, userID)
	if err != nil {
		h.log.WithError(err).Warn("profile picture upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to store profile picture"})
	}

	switch role {
	case models.RoleMember:
		return h.completeMember(c, form, userID, picURL)
	case models.RoleCoach:
		return h.completeCoach(c, form, userID, picURL)
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
}

func (h *OnboardingHandler) completeMember(c *fiber.Ctx, form *multipart.Form, userID int64, picURL *string) error {
	var info profileInfoJSON
	if msg := decodeFormJSON(form, "memberInfoJson", &info); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	var skillIDs []int64
	if msg := decodeFormJSON(form, "skillsJson", &skillIDs); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	profile, err := h.profiles.CompleteMemberOnboarding(c.Context(), userID, services.MemberOnboardingInput{
		Profile: repository.MemberOnboardingInput{
			FirstName:     info.FirstName,
			LastName:      info.LastName,
			Phone:         info.Phone,
			Biography:     info.Biography,
			Location:      info.Location,
			ProfilePicURL: picURL,
		},
		SkillIDs: skillIDs,
	})
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *OnboardingHandler) completeCoach(c *fiber.Ctx, form *multipart.Form, userID int64, picURL *string) error {
	var info profileInfoJSON
	if msg := decodeFormJSON(form, "coachInfoJson", &info); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	var rawSkills []coachSkillJSON
	if msg := decodeFormJSON(form, "skillsJson", &rawSkills); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	skills := make([]repository.CoachSkillInput, 0, len(rawSkills))
	for _, skill := range rawSkills {
		skills = append(skills, repository.CoachSkillInput{
			SkillID:     skill.SkillID,
			Proficiency: skill.Proficiency,
		})
	}

	profile, err := h.profiles.CompleteCoachOnboarding(c.Context(), userID, services.CoachOnboardingInput{
		Profile: repository.CoachOnboardingInput{
			FirstName:     info.FirstName,
			LastName:      info.LastName,
			Phone:         info.Phone,
			Biography:     info.Biography,
			Location:      info.Location,
			ProfilePicURL: picURL,
		},
		Skills: skills,
	})
	if err != nil {
		return mapRequestError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *OnboardingHandler) uploadProfilePic(c *fiber.Ctx, form *multipart.Form, userID int64) (*string, error) {
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

func decodeFormJSON(form *multipart.Form, field string, target any) string {
	values := form.Value[field]
	if len(values) == 0 {
		return field + " is required"
	}
	if err := json.Unmarshal([]byte(values[0]), target); err != nil {
		return field + " is not valid JSON"
	}
	return ""
}

func actorUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
