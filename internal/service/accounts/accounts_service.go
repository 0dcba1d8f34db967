package accounts

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/validate"
)

// Built-in role names, seeded at process start.
const (
	RoleAdmin    = "admin"
	RoleAirline  = "airline"
	RoleCustomer = "customer"
)

type AccountUseCase interface {
	RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*Account, domain.FieldErrors, error)
	RegisterAirline(ctx context.Context, input RegisterAirlineInput) (*Account, domain.FieldErrors, error)
	RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*Account, domain.FieldErrors, error)
	AssignRole(ctx context.Context, userID int64, roleName string) (domain.Record, error)
	GetUserByUsername(ctx context.Context, username string) (domain.Record, error)
}

// Store is the slice of the repository the accounts service depends on.
type Store interface {
	CreateAccount(ctx context.Context, in repository.AccountInput) (user, profile domain.Record, ferrs domain.FieldErrors, err error)
	GetOrCreateRole(ctx context.Context, name string) (domain.Record, error)
	AssignRole(ctx context.Context, userID int64, roleName string) (domain.Record, error)
	GetUserByUsername(ctx context.Context, username string) (domain.Record, error)
	InstanceExists(ctx context.Context, kind domain.Kind, id int64) (bool, error)
}

// Account couples the created user with its profile.
type Account struct {
	User    domain.Record `json:"user"`
	Profile domain.Record `json:"profile"`
}

type Credentials struct {
	Username string `json:"username" validate:"required,alphanum,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterAdminInput struct {
	Credentials
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type RegisterAirlineInput struct {
	Credentials
	Name      string `json:"name" validate:"required"`
	CountryID int64  `json:"country_id" validate:"required,gt=0"`
}

type RegisterCustomerInput struct {
	Credentials
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	Address          string `json:"address" validate:"required"`
	PhoneNumber      string `json:"phone_number" validate:"required"`
	CreditCardNumber string `json:"credit_card_number" validate:"required"`
}

type Service struct {
	store    Store
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, validate: validate.New(), log: log}
}

// EnsureBuiltinRoles creates the three built-in roles. Run once at startup,
// before serving traffic.
func (s *Service) EnsureBuiltinRoles(ctx context.Context) error {
	for _, name := range []string{RoleAdmin, RoleAirline, RoleCustomer} {
		if _, err := s.store.GetOrCreateRole(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*Account, domain.FieldErrors, error) {
	if ferrs := validate.Fields(s.validate, input); ferrs != nil {
		return nil, ferrs, nil
	}
	return s.register(ctx, input.Credentials, RoleAdmin, domain.KindAdmin, domain.Record{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	})
}

func (s *Service) RegisterAirline(ctx context.Context, input RegisterAirlineInput) (*Account, domain.FieldErrors, error) {
	if ferrs := validate.Fields(s.validate, input); ferrs != nil {
		return nil, ferrs, nil
	}
	exists, err := s.store.InstanceExists(ctx, domain.KindCountry, input.CountryID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		ferrs := domain.FieldErrors{}
		ferrs.Add("country_id", "referenced instance does not exist")
		return nil, ferrs, nil
	}
	return s.register(ctx, input.Credentials, RoleAirline, domain.KindAirline, domain.Record{
		"name":       input.Name,
		"country_id": input.CountryID,
	})
}

func (s *Service) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*Account, domain.FieldErrors, error) {
	if ferrs := validate.Fields(s.validate, input); ferrs != nil {
		return nil, ferrs, nil
	}
	return s.register(ctx, input.Credentials, RoleCustomer, domain.KindCustomer, domain.Record{
		"first_name":         input.FirstName,
		"last_name":          input.LastName,
		"address":            input.Address,
		"phone_number":       input.PhoneNumber,
		"credit_card_number": input.CreditCardNumber,
	})
}

func (s *Service) AssignRole(ctx context.Context, userID int64, roleName string) (domain.Record, error) {
	return s.store.AssignRole(ctx, userID, roleName)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (domain.Record, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// register hashes the password and hands the user, role and profile to the
// repository as one transactional unit.
func (s *Service) register(ctx context.Context, creds Credentials, roleName string, profileKind domain.Kind, profile domain.Record) (*Account, domain.FieldErrors, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user, profileRec, ferrs, err := s.store.CreateAccount(ctx, repository.AccountInput{
		User: domain.Record{
			"username":      creds.Username,
			"email":         creds.Email,
			"password_hash": string(hash),
			"is_active":     true,
		},
		RoleName:    roleName,
		ProfileKind: profileKind,
		Profile:     profile,
	})
	if err != nil || ferrs != nil {
		return nil, ferrs, err
	}
	s.log.Info("account registered",
		zap.String("username", creds.Username),
		zap.Stringer("profile_kind", profileKind))
	return &Account{User: user, Profile: profileRec}, nil, nil
}

var _ AccountUseCase = (*Service)(nil)
