package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/pkg/sanitize"
)

var (
	errSelfDeletion   = &domain.Error{Kind: domain.ErrSelfDeletion, Message: "You cannot delete your own account"}
	errPrivilegedEdit = &domain.Error{Kind: domain.ErrForbidden, Message: "Only admins can change role or status"}
	errNotOwner       = &domain.Error{Kind: domain.ErrForbidden, Message: "Not authorized to access this resource"}
)

var (
	roleValues   = []string{string(domain.RoleAdmin), string(domain.RoleManager), string(domain.RoleUser)}
	statusValues = []string{string(domain.StatusActive), string(domain.StatusInactive), string(domain.StatusPending)}
)

// UserService manages Credential Store records on behalf of authenticated callers.
type UserService struct {
	users      ports.UserRepository
	activities ports.ActivityService
	log        zerolog.Logger
	now        func() time.Time
}

func NewUserService(users ports.UserRepository, activities ports.ActivityService, log zerolog.Logger) *UserService {
	return &UserService{users: users, activities: activities, log: log, now: time.Now}
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	if filter.Role != "" && !domain.Role(filter.Role).IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid role %q", filter.Role)
	}
	if filter.Status != "" && !domain.UserStatus(filter.Status).IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid status %q", filter.Status)
	}
	if filter.Department != "" && !domain.IsValidDepartment(filter.Department) {
		return nil, domain.Errorf(domain.ErrValidation, "invalid department %q", filter.Department)
	}
	filter.Search = sanitize.Text(filter.Search)
	return s.users.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, caller *domain.Identity, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if caller == nil || caller.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		if caller.ID() != id {
			return nil, errNotOwner
		}
		if in.Role != nil || in.Status != nil {
			return nil, errPrivilegedEdit
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := []string{}
	metadata := map[string]any{}

	if in.Name != nil {
		name := sanitize.Text(*in.Name)
		if err := checkVar("name", name, "required,max=50"); err != nil {
			return nil, err
		}
		if name != user.Name {
			user.Name = name
			changed = append(changed, "name")
		}
	}

	if in.Email != nil {
		email := sanitize.Email(*in.Email)
		if err := checkVar("email", email, "required,email"); err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, domain.ErrDuplicateEmail
			case err != nil && !errors.Is(err, domain.ErrNotFound):
				return nil, err
			}
			user.Email = email
			changed = append(changed, "email")
		}
	}

	if in.Department != nil {
		department := sanitize.Text(*in.Department)
		if err := checkVar("department", department, "required,"+oneOf(domain.Departments)); err != nil {
			return nil, err
		}
		if department != user.Department {
			user.Department = department
			changed = append(changed, "department")
		}
	}

	if in.Role != nil {
		if err := checkVar("role", *in.Role, "required,"+oneOf(roleValues)); err != nil {
			return nil, err
		}
		role := domain.Role(*in.Role)
		if role != user.Role {
			metadata[string(domain.ActionRoleChanged)] = map[string]any{"from": string(user.Role), "to": string(role)}
			user.Role = role
			changed = append(changed, "role")
		}
	}

	if in.Status != nil {
		if err := checkVar("status", *in.Status, "required,"+oneOf(statusValues)); err != nil {
			return nil, err
		}
		status := domain.UserStatus(*in.Status)
		if status != user.Status {
			user.Status = status
			changed = append(changed, "status")
		}
	}

	user.UpdatedAt = s.now().UTC()
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	who := "(self)"
	if caller.ID() != id {
		who = "(by admin)"
	}
	metadata["changes"] = changed

	if _, err := s.activities.Record(ctx, ports.RecordActivityInput{
		ActorID:     caller.ID(),
		Action:      domain.ActionUpdated,
		Target:      "User: " + updated.Name,
		Type:        domain.TypeUpdate,
		Description: "Profile updated " + who,
		Metadata:    metadata,
		IPAddress:   in.IPAddress,
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, caller *domain.Identity, id, ip string) error {
	if caller == nil || caller.User == nil {
		return domain.ErrUnauthenticated
	}
	if caller.ID() == id {
		return errSelfDeletion
	}
	if !caller.IsAdmin() {
		return errNotOwner
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if _, err := s.activities.Record(ctx, ports.RecordActivityInput{
		ActorID:     caller.ID(),
		Action:      domain.ActionUserDeleted,
		Target:      "User: " + user.Name,
		Type:        domain.TypeDelete,
		Description: "Deleted user " + user.Email,
		Metadata:    map[string]any{"deletedUserId": user.ID},
		IPAddress:   ip,
	}); err != nil {
		return err
	}

	s.log.Info().Str("actor", caller.ID()).Str("deleted_user", id).Msg("user deleted")
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*domain.UserStats, error) {
	return s.users.Stats(ctx)
}

// EnsureAdmin creates the seed admin account, or promotes and reactivates
// the existing account with that email. The password is only set on creation.
func (s *UserService) EnsureAdmin(ctx context.Context, seed ports.AdminSeed) (*domain.User, error) {
	email := sanitize.Email(seed.Email)
	if err := checkVar("admin email", email, "required,email"); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin && existing.Status == domain.StatusActive {
			return existing, nil
		}
		existing.Role = domain.RoleAdmin
		existing.Status = domain.StatusActive
		existing.UpdatedAt = s.now().UTC()
		s.log.Info().Str("email", email).Msg("promoting seed account to admin")
		return s.users.Update(ctx, existing)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	if err := checkVar("admin password", seed.Password, "required,min=6,max=72"); err != nil {
		return nil, err
	}
	name := sanitize.Text(seed.Name)
	if name == "" {
		name = "Admin User"
	}
	department := seed.Department
	if department == "" {
		department = domain.DefaultDepartment
	}

	hash, err := hashPassword(seed.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Department:   department,
		Status:       domain.StatusActive,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	s.log.Info().Str("email", email).Msg("seed admin created")
	return created, nil
}
