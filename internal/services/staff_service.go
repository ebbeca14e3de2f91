package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

const minPasswordLength = 6

type StaffInput struct {
	Name          string
	Role          models.Role
	ContactNumber *string
	Username      string
	Password      string
}

type StaffUpdate struct {
	Name          *string
	Role          *models.Role
	ContactNumber *string
	Username      *string
	Password      *string
}

type StaffService struct {
	db    *gorm.DB
	staff *store.Repo[models.Staff]
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{db: db, staff: store.NewRepo[models.Staff](db, "staff")}
}

func (s *StaffService) Create(ctx context.Context, in StaffInput) (*models.Staff, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalidf("name and username are required")
	}
	if !in.Role.Valid() {
		return nil, apperr.Invalidf("invalid role %q", in.Role)
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Invalidf("password must be at least %d characters", minPasswordLength)
	}
	if err := s.usernameFree(ctx, in.Username, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	member := &models.Staff{
		Name:          in.Name,
		Role:          in.Role,
		ContactNumber: in.ContactNumber,
		Username:      in.Username,
		PasswordHash:  hash,
	}
	if err := s.staff.Insert(ctx, member); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			return nil, apperr.Conflictf("username %q already registered", in.Username)
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"staff_id": member.ID, "role": member.Role}).Info("staff created")
	return member, nil
}

func (s *StaffService) Get(ctx context.Context, id uint) (*models.Staff, error) {
	return s.staff.Get(ctx, id)
}

func (s *StaffService) List(ctx context.Context, page store.Page) ([]models.Staff, error) {
	return s.staff.List(ctx, nil, "id", page)
}

// Update lets staff edit their own profile; anyone else's profile and every
// role change need a Manager.
func (s *StaffService) Update(ctx context.Context, actor models.Identity, id uint, in StaffUpdate) (*models.Staff, error) {
	if actor.StaffID != id && !actor.IsManager() {
		return nil, apperr.Forbiddenf("not enough permissions")
	}
	if in.Role != nil && !actor.IsManager() {
		return nil, apperr.Forbiddenf("only managers can change roles")
	}
	if _, err := s.staff.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Invalidf("invalid role %q", *in.Role)
		}
		fields["role"] = *in.Role
	}
	if in.ContactNumber != nil {
		fields["contact_number"] = *in.ContactNumber
	}
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return nil, apperr.Invalidf("username must not be empty")
		}
		if err := s.usernameFree(ctx, name, id); err != nil {
			return nil, err
		}
		fields["username"] = name
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, apperr.Invalidf("password must be at least %d characters", minPasswordLength)
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	return s.staff.Update(ctx, id, fields)
}

// Delete removes a staff account. Managers cannot delete themselves.
func (s *StaffService) Delete(ctx context.Context, actor models.Identity, id uint) (*models.Staff, error) {
	if actor.StaffID == id {
		return nil, apperr.Invalidf("cannot delete your own account")
	}
	var deleted *models.Staff
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if err := detach(tx, &models.Order{}, "waiter_id", id); err != nil {
			return err
		}
		var err error
		deleted, err = s.staff.WithTx(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("staff_id", id).Info("staff deleted")
	return deleted, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords fail the same way.
func (s *StaffService) Authenticate(ctx context.Context, username, password string) (*models.Staff, error) {
	member, err := s.staff.GetByField(ctx, "username", strings.TrimSpace(username))
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.Unauthenticatedf("incorrect username or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthenticatedf("incorrect username or password")
	}
	return member, nil
}

// EnsureManager creates the first Manager account when none exists yet.
func (s *StaffService) EnsureManager(ctx context.Context, username, password string) error {
	n, err := s.staff.Count(ctx, store.Filters{"role": models.RoleManager})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Create(ctx, StaffInput{
		Name:     "Administrator",
		Role:     models.RoleManager,
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	logrus.WithField("username", username).Warn("bootstrapped initial manager account, change its password")
	return nil
}

func (s *StaffService) usernameFree(ctx context.Context, username string, self uint) error {
	existing, err := s.staff.GetByField(ctx, "username", username)
	switch {
	case apperr.Is(err, apperr.NotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.Conflictf("username %q already registered", username)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err, "could not hash password")
	}
	return string(hash), nil
}
