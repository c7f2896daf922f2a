package userController

import (
	"context"

	"museletter/internal/models"
	"museletter/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
)

// UserController handles profile reads and partial updates
type UserController struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

type UserControllerInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(
		ctx context.Context,
		userID uuid.UUID,
		req models.ProfileUpdateRequest,
	) (*models.UserProfile, error)
}

func New(userRepo repositories.UserRepository) UserControllerInterface {
	return &UserController{
		userRepo: userRepo,
		log:      logger.New("userController"),
	}
}

func (c *UserController) GetProfile(
	ctx context.Context,
	userID uuid.UUID,
) (*models.UserProfile, error) {
	log := c.log.Function("GetProfile")

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to fetch user", err, "userID", userID)
	}

	profile := user.ToProfile()
	return &profile, nil
}

// UpdateProfile applies only the fields present in the request. Omitted
// fields are left untouched, empty strings clear the value.
func (c *UserController) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	req models.ProfileUpdateRequest,
) (*models.UserProfile, error) {
	log := c.log.Function("UpdateProfile")

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to fetch user", err, "userID", userID)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Country != nil {
		user.Country = *req.Country
	}

	if err := c.userRepo.Update(ctx, user); err != nil {
		return nil, log.Err("failed to update profile", err, "userID", userID)
	}

	log.Info("profile updated", "userID", userID,
		"nameProvided", req.Name != nil,
		"pictureProvided", req.ProfilePicture != nil,
		"countryProvided", req.Country != nil,
	)

	profile := user.ToProfile()
	return &profile, nil
}
