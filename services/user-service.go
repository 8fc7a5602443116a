package services

import (
	"context"
	"errors"
	"strings"

	"intern-tracker/logging"
	"intern-tracker/models"
	"intern-tracker/repositories"
	"intern-tracker/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenIssuer is implemented by utils.JWTManager.
type TokenIssuer interface {
	GenerateToken(userID, email, role string) (string, error)
}

type UserService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewUserService(users UserStore, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// InternInput is used for both create and update. On update, empty fields
// keep their stored value and the password is only replaced when non-empty.
type InternInput struct {
	Email       string
	Password    string
	Name        string
	CollegeName string
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, unauthorized("invalid credentials")
		}
		return nil, storeError("login", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for %s", user.Email)
		return nil, unauthorized("invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, &Error{Kind: ErrStorage, Msg: "failed to issue token"}
	}
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: %s logged in as %s", user.Email, user.Role)
	return &LoginResult{Token: token, User: *user}, nil
}

// SeedAdmin creates the first admin. It reports false without error when a
// user with that email already exists.
func (s *UserService) SeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, invalid("admin seed requires email and password")
	}
	if name == "" {
		name = "Admin"
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !isNotFound(err) {
		return false, storeError("seed admin", err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.User{Email: email, Password: hashed, Name: name, Role: models.RoleAdmin}
	if err := s.users.Insert(ctx, admin); err != nil {
		return false, storeError("seed admin", err)
	}
	return true, nil
}

func (s *UserService) ListInterns(ctx context.Context, caller models.Caller) ([]models.Intern, error) {
	if err := Authorize(caller, ActionManageInterns); err != nil {
		return nil, err
	}
	users, err := s.users.FindByRole(ctx, models.RoleIntern)
	if err != nil {
		return nil, storeError("list interns", err)
	}
	interns := make([]models.Intern, 0, len(users))
	for _, u := range users {
		interns = append(interns, u.AsIntern())
	}
	return interns, nil
}

func (s *UserService) CreateIntern(ctx context.Context, caller models.Caller, in InternInput) (*models.Intern, error) {
	if err := Authorize(caller, ActionManageInterns); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return nil, invalid("email, password and name are required")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:       email,
		Password:    hashed,
		Name:        strings.TrimSpace(in.Name),
		Role:        models.RoleIntern,
		CollegeName: in.CollegeName,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, storeError("create intern", err)
	}
	logging.Logger.Infof("Event ID: INTERN_CREATED, Description: Intern %s created by %s", user.ID.Hex(), caller.ID.Hex())

	intern := user.AsIntern()
	return &intern, nil
}

func (s *UserService) UpdateIntern(ctx context.Context, caller models.Caller, id primitive.ObjectID, in InternInput) (*models.Intern, error) {
	if err := Authorize(caller, ActionManageInterns); err != nil {
		return nil, err
	}
	user, err := s.findIntern(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := normalizeEmail(in.Email); email != "" {
		user.Email = email
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.CollegeName != "" {
		user.CollegeName = in.CollegeName
	}
	if in.Password != "" {
		hashed, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError("update intern", err)
	}
	logging.Logger.Infof("Event ID: INTERN_UPDATED, Description: Intern %s updated by %s", user.ID.Hex(), caller.ID.Hex())

	intern := user.AsIntern()
	return &intern, nil
}

// DeleteIntern removes the user only. Tasks that still reference the intern
// are left as they are.
func (s *UserService) DeleteIntern(ctx context.Context, caller models.Caller, id primitive.ObjectID) error {
	if err := Authorize(caller, ActionManageInterns); err != nil {
		return err
	}
	if _, err := s.findIntern(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError("delete intern", err)
	}
	logging.Logger.Infof("Event ID: INTERN_DELETED, Description: Intern %s deleted by %s", id.Hex(), caller.ID.Hex())
	return nil
}

func (s *UserService) findIntern(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("intern not found")
		}
		return nil, storeError("find intern", err)
	}
	if user.Role != models.RoleIntern {
		return nil, notFound("intern not found")
	}
	return user, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
