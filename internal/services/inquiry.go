package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ggorockee/localdirectory/internal/database"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/models"
	"github.com/ggorockee/localdirectory/internal/resilience"
)

var (
	// ErrInquiryNotFound 문의 내역 없음
	ErrInquiryNotFound = errors.New("inquiry not found")

	phonePattern = regexp.MustCompile(`^(\+\d{1,2}\s?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`)

	errInvalidTimezone = validation.NewError("validation_timezone_invalid", "Invalid timezone")
)

// InquiryRequest 문의 폼 입력
type InquiryRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	PreferredContact string `json:"preferredContact"`

	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
	Website     string `json:"website"`

	InquiryType string `json:"inquiryType"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	Urgency     string `json:"urgency"`

	Budget         string `json:"budget"`
	Timeline       string `json:"timeline"`
	ReferralSource string `json:"referralSource"`

	NewsletterOptIn    bool   `json:"newsletterOptIn"`
	FollowUpPreference string `json:"followUpPreference"`
	Timezone           string `json:"timezone"`
}

// Validate 필드별 규칙 검증
func (r InquiryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 0).Error("First name must be at least 2 characters")),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 0).Error("Last name must be at least 2 characters")),
		validation.Field(&r.Email, validation.Required, is.EmailFormat.Error("Invalid email address")),
		validation.Field(&r.Phone, validation.Required, validation.Match(phonePattern).Error("Invalid phone number")),
		validation.Field(&r.PreferredContact, validation.Required, validation.In("email", "phone", "both")),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.InquiryType, validation.Required, validation.In("general", "business", "partnership", "support", "other")),
		validation.Field(&r.Subject, validation.Required, validation.Length(5, 0).Error("Subject must be at least 5 characters")),
		validation.Field(&r.Message, validation.Required, validation.Length(20, 0).Error("Message must be at least 20 characters")),
		validation.Field(&r.Urgency, validation.Required, validation.In("low", "medium", "high")),
		validation.Field(&r.FollowUpPreference, validation.Required, validation.In("morning", "afternoon", "evening", "anytime")),
		validation.Field(&r.Timezone, validation.Required, validation.By(validTimezone)),
	)
}

func validTimezone(value interface{}) error {
	name, _ := value.(string)
	if name == "" || name == "Local" {
		return errInvalidTimezone
	}
	if _, err := time.LoadLocation(name); err != nil {
		return errInvalidTimezone
	}
	return nil
}

// RequestMeta 요청자 정보
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// InquiryResult 문의 등록 결과
type InquiryResult struct {
	Success   bool   `json:"success"`
	InquiryID string `json:"inquiryId"`
	Message   string `json:"message"`
}

// Notifier is told about each stored inquiry.
type Notifier interface {
	InquirySubmitted(ctx context.Context, inq *models.Inquiry) error
}

type InquiryService struct {
	db       *database.DB
	retry    resilience.RetryConfig
	notifier Notifier
}

func NewInquiryService(db *database.DB) *InquiryService {
	retry := resilience.DefaultRetryConfig()
	retry.Name = "inquiry.save"
	return &InquiryService{db: db, retry: retry}
}

// WithRetry 저장 재시도 설정 교체 (테스트용)
func (s *InquiryService) WithRetry(cfg resilience.RetryConfig) *InquiryService {
	s.retry = cfg
	return s
}

// WithNotifier 저장 후 알림 발송 (비동기, 실패는 로그만)
func (s *InquiryService) WithNotifier(n Notifier) *InquiryService {
	s.notifier = n
	return s
}

// Submit validates and stores a new inquiry with status "new".
func (s *InquiryService) Submit(ctx context.Context, req InquiryRequest, meta RequestMeta) (*InquiryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	inquiry := &models.Inquiry{
		ID:                 uuid.NewString(),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		PreferredContact:   req.PreferredContact,
		CompanyName:        req.CompanyName,
		JobTitle:           req.JobTitle,
		Website:            req.Website,
		InquiryType:        req.InquiryType,
		Subject:            req.Subject,
		Message:            req.Message,
		Urgency:            req.Urgency,
		Budget:             req.Budget,
		Timeline:           req.Timeline,
		ReferralSource:     req.ReferralSource,
		NewsletterOptIn:    req.NewsletterOptIn,
		FollowUpPreference: req.FollowUpPreference,
		Timezone:           req.Timezone,
		Status:             models.InquiryStatusNew,
		IPAddress:          orUnknown(meta.IPAddress),
		UserAgent:          orUnknown(meta.UserAgent),
	}

	_, err := resilience.Retry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.WithContext(ctx).Create(inquiry).Error
	}, s.retry)
	if err != nil {
		return nil, fmt.Errorf("save inquiry: %w", err)
	}

	if s.notifier != nil {
		go s.notify(context.WithoutCancel(ctx), inquiry)
	}

	return &InquiryResult{
		Success:   true,
		InquiryID: inquiry.ID,
		Message:   "Inquiry submitted successfully",
	}, nil
}

func (s *InquiryService) notify(ctx context.Context, inq *models.Inquiry) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.notifier.InquirySubmitted(ctx, inq); err != nil {
		logger.GetLogger("inquiry").Errorf("inquiry %s notification failed: %v", inq.ID, err)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Get 문의 단건 조회
func (s *InquiryService) Get(ctx context.Context, id string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&inquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInquiryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// ListByEmail 이메일별 문의 목록 (최신순)
func (s *InquiryService) ListByEmail(ctx context.Context, email string) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	return inquiries, nil
}

// UpdateStatus 처리 상태 변경
func (s *InquiryService) UpdateStatus(ctx context.Context, id, status string) error {
	if err := validation.Validate(status, validation.Required, validation.In(
		models.InquiryStatusNew,
		models.InquiryStatusInProgress,
		models.InquiryStatusCompleted,
		models.InquiryStatusArchived,
	)); err != nil {
		return &ValidationError{Fields: map[string]string{"status": err.Error()}}
	}

	res := s.db.WithContext(ctx).Model(&models.Inquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

// Delete 문의 삭제
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inquiry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}
