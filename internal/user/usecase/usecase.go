package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/notify"
	"github.com/hleeroa/Autoshop/internal/user"
	"github.com/hleeroa/Autoshop/internal/user/dto"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type userUseCase struct {
	repo      user.Repository
	publisher user.Publisher
	logger    logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, publisher user.Publisher, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *userUseCase) Register(ctx context.Context, input *dto.RegisterInput) error {
	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
		return user.ErrMissingArguments
	}
	if len(input.Password) < minPasswordLength {
		return user.ErrWeakPassword
	}

	accountType := input.Type
	switch accountType {
	case "":
		accountType = model.UserTypeBuyer
	case model.UserTypeBuyer, model.UserTypeShop:
	default:
		return user.ErrMissingArguments
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := &model.User{
		Email:     input.Email,
		Password:  string(hash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Company:   input.Company,
		Position:  input.Position,
		Type:      accountType,
		IsActive:  false,
	}

	id, err := uc.repo.CreateUser(ctx, u)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := uc.repo.SaveConfirmToken(ctx, id, token); err != nil {
		return err
	}

	uc.publishEvent(notify.NewEvent(notify.EventUserRegistered, input.Email, map[string]string{
		"token": token,
	}))
	return nil
}

func (uc *userUseCase) ConfirmEmail(ctx context.Context, email, token string) error {
	if email == "" || token == "" {
		return user.ErrMissingArguments
	}

	userID, err := uc.repo.ConsumeConfirmToken(ctx, email, token)
	if err != nil {
		return err
	}
	return uc.repo.ActivateUser(ctx, userID)
}

func (uc *userUseCase) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", user.ErrMissingArguments
	}

	u, err := uc.repo.UserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !u.IsActive {
		return "", user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", user.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := uc.repo.SaveAuthToken(ctx, u.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (uc *userUseCase) Details(ctx context.Context, userID int64) (*model.User, error) {
	u, err := uc.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrInvalidCredentials
	}

	contacts, err := uc.repo.Contacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Contacts = contacts
	return u, nil
}

func (uc *userUseCase) UpdateDetails(ctx context.Context, userID int64, input *dto.UpdateDetailsInput) error {
	u, err := uc.repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrInvalidCredentials
	}

	if input.FirstName != nil {
		u.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		u.LastName = *input.LastName
	}
	if input.Company != nil {
		u.Company = *input.Company
	}
	if input.Position != nil {
		u.Position = *input.Position
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return user.ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
	}

	return uc.repo.UpdateUser(ctx, u)
}

func (uc *userUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return user.ErrMissingArguments
	}

	u, err := uc.repo.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	token := uuid.NewString()
	if err := uc.repo.SaveConfirmToken(ctx, u.ID, token); err != nil {
		return err
	}

	uc.publishEvent(notify.NewEvent(notify.EventPasswordReset, email, map[string]string{
		"token": token,
	}))
	return nil
}

func (uc *userUseCase) ResetPassword(ctx context.Context, email, token, password string) error {
	if email == "" || token == "" || password == "" {
		return user.ErrMissingArguments
	}
	if len(password) < minPasswordLength {
		return user.ErrWeakPassword
	}

	userID, err := uc.repo.ConsumeConfirmToken(ctx, email, token)
	if err != nil {
		return err
	}

	u, err := uc.repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return uc.repo.UpdateUser(ctx, u)
}

func (uc *userUseCase) Contacts(ctx context.Context, userID int64) ([]model.Contact, error) {
	return uc.repo.Contacts(ctx, userID)
}

func (uc *userUseCase) CreateContact(ctx context.Context, userID int64, input *dto.ContactInput) error {
	if input.City == "" || input.Street == "" || input.Phone == "" {
		return user.ErrMissingArguments
	}

	contact := &model.Contact{
		UserID:    userID,
		City:      input.City,
		Street:    input.Street,
		House:     input.House,
		Structure: input.Structure,
		Building:  input.Building,
		Apartment: input.Apartment,
		Phone:     input.Phone,
	}
	return uc.repo.CreateContact(ctx, contact)
}

func (uc *userUseCase) UpdateContact(ctx context.Context, userID, contactID int64, input *dto.ContactUpdateInput) error {
	contact, err := uc.repo.ContactByID(ctx, contactID, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return user.ErrContactNotFound
	}

	if input.City != nil {
		contact.City = *input.City
	}
	if input.Street != nil {
		contact.Street = *input.Street
	}
	if input.House != nil {
		contact.House = *input.House
	}
	if input.Structure != nil {
		contact.Structure = *input.Structure
	}
	if input.Building != nil {
		contact.Building = *input.Building
	}
	if input.Apartment != nil {
		contact.Apartment = *input.Apartment
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}

	return uc.repo.UpdateContact(ctx, contact)
}

func (uc *userUseCase) DeleteContacts(ctx context.Context, userID int64, rawIDs []string) (int, error) {
	ids := make([]int64, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, user.ErrMissingArguments
	}

	deleted, err := uc.repo.DeleteContacts(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// publishEvent hands the notification to the broker on a short detached
// context; delivery failures are logged, never surfaced to the caller.
func (uc *userUseCase) publishEvent(event *notify.Event) {
	if uc.publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal notification event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := uc.publisher.Publish(ctx, []byte(event.Email), data); err != nil {
		uc.logger.Error("failed to publish notification event",
			zap.String("event_type", event.Type),
			zap.Error(err))
	}
}
