// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "quill/internal/delivery/context"
	"quill/internal/domain/entity"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/event"
	"quill/internal/domain/repository"
	"quill/internal/domain/service"
	"quill/internal/usecase"
)

// codeSpace is the number of possible verification codes; codes are rendered
// zero-padded to six digits.
const codeSpace = 1_000_000

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager      repository.TransactionManager
	credentialRepo repository.CredentialRepository
	profileRepo    repository.ProfileRepository
	verifications  repository.VerificationStore
	hasher         service.PasswordHasher
	codec          service.TokenCodec
	publisher      service.EventPublisher
	logger         *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	CredentialRepo repository.CredentialRepository
	ProfileRepo    repository.ProfileRepository
	Verifications  repository.VerificationStore
	Hasher         service.PasswordHasher
	Codec          service.TokenCodec
	Publisher      service.EventPublisher
	Logger         *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:      params.TxManager,
		credentialRepo: params.CredentialRepo,
		profileRepo:    params.ProfileRepo,
		verifications:  params.Verifications,
		hasher:         params.Hasher,
		codec:          params.Codec,
		publisher:      params.Publisher,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SendVerificationCode issues a fresh six-digit code for the email and hands
// delivery to the event channel. A repeated request replaces the previous
// code and restarts its lifetime.
func (srv *accountService) SendVerificationCode(ctx context.Context, input *usecase.SendCodeInput) error {
	email := entity.NormalizeEmail(input.Email)

	code, err := generateCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate verification code")
	}

	if err := srv.verifications.PutCode(ctx, email, code); err != nil {
		return errors.Wrap(err, "failed to store verification code")
	}

	if err := srv.publisher.PublishVerificationMail(ctx, &event.VerificationMailRequested{
		Email: email,
		Code:  code,
		Kind:  event.MailKindSignup,
	}); err != nil {
		return errors.Wrap(err, "failed to request verification mail")
	}

	srv.log(ctx).Info("Verification code issued", slog.String("email", email))

	return nil
}

// VerifyCode promotes a pending code to a verified flag. All failure shapes
// collapse into one error so a caller cannot probe which emails hold codes.
func (srv *accountService) VerifyCode(ctx context.Context, input *usecase.VerifyCodeInput) error {
	email := entity.NormalizeEmail(input.Email)

	ok, err := srv.verifications.Promote(ctx, email, input.Code)
	if err != nil {
		return errors.Wrap(err, "failed to promote verification code")
	}
	if !ok {
		return domainerrors.ErrCodeMismatch
	}

	srv.log(ctx).Info("Email verified", slog.String("email", email))

	return nil
}

// Signup creates a credential for a verified email and opens a session.
// The verified flag is checked before the uniqueness checks so that a retry
// after a completed signup reads as "email not verified" rather than leaking
// which field collided.
func (srv *accountService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)

	verified, err := srv.verifications.HasVerified(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check verified flag")
	}
	if !verified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	cred := &entity.Credential{
		Username:     input.Username,
		PasswordHash: hashed,
		Email:        email,
		Role:         entity.RoleUser,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credRepo := repoFactory.CredentialRepo()
		profRepo := repoFactory.ProfileRepo()

		taken, err := credRepo.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return errors.Wrap(err, "failed to check username")
		}
		if taken {
			return domainerrors.ErrUsernameTaken
		}

		taken, err = credRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return errors.Wrap(err, "failed to check email")
		}
		if taken {
			return domainerrors.ErrEmailTaken
		}

		taken, err = profRepo.ExistsByNickname(ctx, input.Nickname)
		if err != nil {
			return errors.Wrap(err, "failed to check nickname")
		}
		if taken {
			return domainerrors.ErrNicknameTaken
		}

		return credRepo.Create(ctx, cred)
	})
	if err != nil {
		return nil, err
	}

	// The flag is single-use: once a credential exists the same verification
	// cannot authorize another signup.
	consumed, err := srv.verifications.ConsumeVerified(ctx, email)
	if err != nil || !consumed {
		srv.log(ctx).Warn("Verified flag not consumed after signup",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}

	// Profile provisioning is asynchronous. The credential is already
	// committed, so a publish failure must not fail the signup; redelivery
	// tooling picks up the gap instead.
	if err := srv.publisher.PublishProfileCreation(ctx, &event.ProfileCreationRequested{
		ID:       cred.ID.String(),
		Username: cred.Username,
		Nickname: input.Nickname,
		Email:    cred.Email,
	}); err != nil {
		srv.log(ctx).Error("Failed to publish profile-creation event",
			slog.String("identity_id", cred.ID.String()),
			slog.Any("error", err),
		)
	}

	token, err := srv.codec.Issue(cred.ID, cred.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Info("Account created",
		slog.String("identity_id", cred.ID.String()),
		slog.String("username", cred.Username),
	)

	return &usecase.AuthOutput{
		Token:   token,
		Account: toAccountView(cred),
	}, nil
}

// Login checks the password and opens a session. Unknown usernames and wrong
// passwords produce the same error.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	cred, err := srv.credentialRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find credential")
	}

	if !srv.hasher.Check(input.Password, cred.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.codec.Issue(cred.ID, cred.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Info("Login succeeded", slog.String("identity_id", cred.ID.String()))

	return &usecase.AuthOutput{
		Token:   token,
		Account: toAccountView(cred),
	}, nil
}

// CurrentAccount returns the account behind an authenticated session.
func (srv *accountService) CurrentAccount(ctx context.Context, identityID uuid.UUID) (*usecase.AccountView, error) {
	return srv.findAccount(ctx, identityID)
}

// LookupAccount returns any account by id for administrative inspection.
func (srv *accountService) LookupAccount(ctx context.Context, identityID uuid.UUID) (*usecase.AccountView, error) {
	return srv.findAccount(ctx, identityID)
}

func (srv *accountService) findAccount(ctx context.Context, identityID uuid.UUID) (*usecase.AccountView, error) {
	cred, err := srv.credentialRepo.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, domainerrors.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential")
	}

	return toAccountView(cred), nil
}

// UsernameAvailable reports whether the username is free to register.
func (srv *accountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := srv.credentialRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, errors.Wrap(err, "failed to check username")
	}

	return !taken, nil
}

// NicknameAvailable reports whether the nickname is free to register.
func (srv *accountService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	taken, err := srv.profileRepo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return false, errors.Wrap(err, "failed to check nickname")
	}

	return !taken, nil
}

func toAccountView(cred *entity.Credential) *usecase.AccountView {
	return &usecase.AccountView{
		ID:        cred.ID,
		Username:  cred.Username,
		Email:     cred.Email,
		Role:      cred.Role,
		CreatedAt: cred.CreatedAt,
	}
}

// generateCode draws a uniformly random six-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", errors.WithStack(err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
