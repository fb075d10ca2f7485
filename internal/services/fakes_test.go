package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"footwork_backend/internal/models"
	"footwork_backend/internal/payments"
	"footwork_backend/internal/repositories"

	"gorm.io/gorm"
)

// passthroughTx replaces the real transaction wrapper in tests; the fakes
// below keep state in memory, so there is nothing to roll back.
func passthroughTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return fn(db)
}

type fakeMembershipRepo struct {
	seq         int
	memberships []*models.Membership
}

func (r *fakeMembershipRepo) activeFor(userID, excludeID string) *models.Membership {
	for _, m := range r.memberships {
		if m.UserID == userID && m.Status == models.MembershipStatusActive && m.ID != excludeID {
			return m
		}
	}
	return nil
}

func (r *fakeMembershipRepo) Create(db *gorm.DB, membership *models.Membership) error {
	if membership.Status == models.MembershipStatusActive && r.activeFor(membership.UserID, "") != nil {
		return repositories.ErrActiveMembershipConflict
	}
	r.seq++
	if membership.ID == "" {
		membership.ID = fmt.Sprintf("m-%d", r.seq)
	}
	membership.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	clone := *membership
	r.memberships = append(r.memberships, &clone)
	return nil
}

func (r *fakeMembershipRepo) FindByID(db *gorm.DB, id string) (*models.Membership, error) {
	for _, m := range r.memberships {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) FindActiveByUserID(db *gorm.DB, userID string) (*models.Membership, error) {
	if m := r.activeFor(userID, ""); m != nil {
		clone := *m
		return &clone, nil
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) FindByPaymentIntentID(db *gorm.DB, intentID string) (*models.Membership, error) {
	for _, m := range r.memberships {
		if m.PaymentIntentID == intentID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) FindLatestPendingByUserID(db *gorm.DB, userID string) (*models.Membership, error) {
	for i := len(r.memberships) - 1; i >= 0; i-- {
		m := r.memberships[i]
		if m.UserID == userID && m.Status == models.MembershipStatusPending {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) FindHistoryByUserID(db *gorm.DB, userID string) ([]models.Membership, error) {
	var out []models.Membership
	for i := len(r.memberships) - 1; i >= 0; i-- {
		if r.memberships[i].UserID == userID {
			out = append(out, *r.memberships[i])
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) Update(db *gorm.DB, membership *models.Membership) error {
	if membership.Status == models.MembershipStatusActive && r.activeFor(membership.UserID, membership.ID) != nil {
		return repositories.ErrActiveMembershipConflict
	}
	for i, m := range r.memberships {
		if m.ID == membership.ID {
			clone := *membership
			clone.CreatedAt = m.CreatedAt
			r.memberships[i] = &clone
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) UpdateStatus(db *gorm.DB, membershipID string, status models.MembershipStatus) error {
	for _, m := range r.memberships {
		if m.ID == membershipID {
			if status == models.MembershipStatusActive && r.activeFor(m.UserID, m.ID) != nil {
				return repositories.ErrActiveMembershipConflict
			}
			m.Status = status
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) ExpireDue(db *gorm.DB, now time.Time) (int64, error) {
	var count int64
	for _, m := range r.memberships {
		if m.Status == models.MembershipStatusActive && m.RenewalDate.Before(now) {
			m.Status = models.MembershipStatusExpired
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	if _, err := r.FindByEmail(db, user.Email); err == nil {
		return repositories.ErrUserAlreadyExists
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("u-%d", len(r.users)+1)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) MarkActive(db *gorm.DB, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsActive = true
	return nil
}

func (r *fakeUserRepo) MarkVerified(db *gorm.DB, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.EmailVerified = true
	u.VerificationToken = ""
	return nil
}

func (r *fakeUserRepo) ApproveTeam(db *gorm.DB, userID string) error {
	u, ok := r.users[userID]
	if !ok || u.Role != models.UserRoleTeam {
		return repositories.ErrUserNotFound
	}
	u.IsApproved = true
	return nil
}

func (r *fakeUserRepo) UpdateCVKey(db *gorm.DB, userID, key string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.CVKey = key
	return nil
}

type fakeEventRepo struct {
	records map[string]*models.PaymentEventRecord
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{records: map[string]*models.PaymentEventRecord{}}
}

func (r *fakeEventRepo) Record(db *gorm.DB, record *models.PaymentEventRecord) error {
	if _, ok := r.records[record.EventID]; ok {
		return repositories.ErrEventAlreadyProcessed
	}
	clone := *record
	r.records[record.EventID] = &clone
	return nil
}

func (r *fakeEventRepo) FindByEventID(db *gorm.DB, eventID string) (*models.PaymentEventRecord, error) {
	rec, ok := r.records[eventID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

type fakeRefreshRepo struct {
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (r *fakeRefreshRepo) Create(db *gorm.DB, token *models.RefreshToken) error {
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *fakeRefreshRepo) FindByToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeRefreshRepo) DeleteByToken(db *gorm.DB, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeRefreshRepo) DeleteByUserID(db *gorm.DB, userID string) error {
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.files[key] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.files, key)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.files[key]
	return ok, nil
}

func (s *fakeStorage) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

type fakeGateway struct {
	seq             int
	intents         map[string]*payments.Intent
	sessions        map[string]*payments.CheckoutSession
	createdSessions []payments.CheckoutParams
	createdIntents  []payments.IntentParams
	verifyEvent     *payments.Event
	verifyErr       error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		intents:  map[string]*payments.Intent{},
		sessions: map[string]*payments.CheckoutSession{},
	}
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params payments.CheckoutParams) (*payments.CheckoutSession, error) {
	g.seq++
	g.createdSessions = append(g.createdSessions, params)
	sess := &payments.CheckoutSession{
		ID:           fmt.Sprintf("cs_test_%d", g.seq),
		ClientSecret: fmt.Sprintf("cs_test_%d_secret", g.seq),
		Status:       "open",
		Metadata:     params.Metadata,
	}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*payments.CheckoutSession, error) {
	sess, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", sessionID)
	}
	return sess, nil
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, params payments.IntentParams) (*payments.Intent, error) {
	g.seq++
	g.createdIntents = append(g.createdIntents, params)
	intent := &payments.Intent{
		ID:           fmt.Sprintf("pi_test_%d", g.seq),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", g.seq),
		Status:       "requires_payment_method",
		AmountCents:  params.AmountCents,
		Metadata:     params.Metadata,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) GetPaymentIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent: %s", intentID)
	}
	return intent, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, sigHeader string) (*payments.Event, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verifyEvent, nil
}
