package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
	"github.com/talentvote/backend/internal/repository"
)

type AuthService interface {
	Login(username string) (model.User, error)
}

type authService struct {
	userRepository repository.UserRepository
	config         dto.Config
}

func newAuthService(userRepository repository.UserRepository, config dto.Config) AuthService {
	return &authService{
		userRepository: userRepository,
		config:         config,
	}
}

// Login maps a username to its role deterministically: the reserved admin
// name (case-insensitive) gets the admin role, everyone else is public. The
// user is persisted on first login. This is an identity label, not an
// authentication scheme.
func (a *authService) Login(username string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, fmt.Errorf("%w: username is required", dto.ErrValidation)
	}

	role := model.RolePublic
	if strings.EqualFold(username, a.config.AdminUsername) {
		role = model.RoleAdmin
	}

	user, err := a.userRepository.Upsert(model.User{
		Username: username,
		Role:     role,
	})
	if err != nil {
		return model.User{}, err
	}

	logrus.Infof("User %s logged in with role %s", user.Username, user.Role)
	return user, nil
}
