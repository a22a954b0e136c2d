package account

import (
	"context"
	"fmt"
	"net/url"

	"anoa.com/folio/internal/entity"
	accountDto "anoa.com/folio/internal/modules/account/dto"
	accountRepo "anoa.com/folio/internal/modules/account/repository"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/apperror"
	"github.com/google/uuid"
)

// AccountService manages the account record behind an authenticated subject.
// Credentials live with the identity provider; the account only carries the
// email address and owns profiles.
type AccountService interface {
	Register(ctx context.Context, accountID uuid.UUID, form url.Values) (*accountDto.AccountResponse, error)
	Get(ctx context.Context, accountID uuid.UUID) (*accountDto.AccountResponse, error)
	UpdateEmail(ctx context.Context, accountID uuid.UUID, form url.Values) (*accountDto.AccountResponse, error)
}

type accountService struct {
	repo   accountRepo.AccountRepository
	engine *validation.Engine
}

func NewAccountService(repo accountRepo.AccountRepository, engine *validation.Engine) AccountService {
	return &accountService{repo: repo, engine: engine}
}

func (s *accountService) Register(ctx context.Context, accountID uuid.UUID, form url.Values) (*accountDto.AccountResponse, error) {
	existing, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("account %s already registered: %w", accountID, apperror.ErrConflict)
	}

	data, err := s.engine.Validate(ctx, SchemaName, form, validation.ModeServer)
	if err != nil {
		return nil, err
	}

	account := &entity.Account{ID: accountID, Email: data.Value("email")}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	return accountDto.NewAccountResponse(account), nil
}

func (s *accountService) load(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NotFound("account", accountID.String())
	}
	return account, nil
}

func (s *accountService) Get(ctx context.Context, accountID uuid.UUID) (*accountDto.AccountResponse, error) {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return accountDto.NewAccountResponse(account), nil
}

func (s *accountService) UpdateEmail(ctx context.Context, accountID uuid.UUID, form url.Values) (*accountDto.AccountResponse, error) {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	current := validation.FromStrings(map[string]*string{"email": &account.Email})
	data, err := s.engine.Validate(ctx, SchemaName, form, validation.ModeServer, validation.WithCurrent(current))
	if err != nil {
		return nil, err
	}

	email := data.Value("email")
	if email != account.Email {
		if err := s.repo.UpdateEmail(ctx, accountID, email); err != nil {
			return nil, fmt.Errorf("update email: %w", err)
		}
		account.Email = email
	}
	return accountDto.NewAccountResponse(account), nil
}
