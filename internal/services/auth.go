package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"zonewatch/internal/auth"
	"zonewatch/internal/config"
	"zonewatch/internal/logger"
	"zonewatch/internal/models"

	"github.com/go-ldap/ldap/v3"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrLDAPDisabled       = errors.New("ldap login is not configured")
	ErrTokenRevoked       = errors.New("token revoked or invalid")
	ErrOfficerNotFound    = errors.New("officer not found")
)

const defaultRank = "Officer"

// ValidationError carries per-field form messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	PoliceID string `json:"police_id"`
	FullName string `json:"full_name"`
	Rank     string `json:"rank"`
}

// Session is the result of a successful login or refresh.
type Session struct {
	Tokens  *auth.TokenPair
	Officer *models.Profile
}

type AuthService struct {
	db   *bun.DB
	jwt  *auth.JWTManager
	cfg  *config.Config
	logr *logger.Logger
}

func NewAuthService(db *bun.DB, jwt *auth.JWTManager, cfg *config.Config, logr *logger.Logger) *AuthService {
	return &AuthService{db: db, jwt: jwt, cfg: cfg, logr: logr}
}

// HashPassword uses bcrypt
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validateLogin(email, password string) error {
	fields := map[string]string{}
	if !validEmail(email) {
		fields["email"] = "Please enter a valid email address"
	}
	if utf8.RuneCountInString(password) < 6 {
		fields["password"] = "Password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *RegisterRequest) normalize() error {
	r.Email = strings.TrimSpace(r.Email)
	r.PoliceID = strings.TrimSpace(r.PoliceID)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Rank = strings.TrimSpace(r.Rank)
	if r.Rank == "" {
		r.Rank = defaultRank
	}

	fields := map[string]string{}
	var verr *ValidationError
	if err := validateLogin(r.Email, r.Password); errors.As(err, &verr) {
		fields = verr.Fields
	}
	if utf8.RuneCountInString(r.PoliceID) < 3 {
		fields["police_id"] = "Police ID must be at least 3 characters"
	}
	if utf8.RuneCountInString(r.FullName) < 2 {
		fields["full_name"] = "Full name is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register creates a local officer account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	exists, err := s.db.NewSelect().Model((*models.Officer)(nil)).Where("email = ?", req.Email).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup officer: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	o := &models.Officer{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		PoliceID:     req.PoliceID,
		Rank:         req.Rank,
		Provider:     "local",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(o).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert officer: %w", err)
	}

	s.logr.Info("officer registered", zap.String("officer_id", o.ID), zap.String("email", o.Email))
	return o.Profile(), nil
}

// SeedOfficer registers a demo account unless the email is already known.
func (s *AuthService) SeedOfficer(ctx context.Context, req RegisterRequest) error {
	_, err := s.Register(ctx, req)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}

// LoginLocal checks an email/password pair against the officer store.
func (s *AuthService) LoginLocal(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	var o models.Officer
	err := s.db.NewSelect().Model(&o).Where("email = ?", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if o.PasswordHash == "" {
		return nil, fmt.Errorf("%w: account not configured for local login", ErrInvalidCredentials)
	}
	if err := ComparePassword(o.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, &o, "local")
}

// LoginLDAP binds as the user against the configured directory, reads the
// display attributes and provisions an ldap officer on first login.
func (s *AuthService) LoginLDAP(ctx context.Context, username, password string) (*Session, error) {
	if s.cfg.LDAPServer == "" {
		return nil, ErrLDAPDisabled
	}
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	cleanUsername := username
	bindDN := username
	if domain := s.cfg.LDAPUserDomain; domain != "" {
		re := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(domain) + `$`)
		cleanUsername = re.ReplaceAllString(username, "")
		bindDN = cleanUsername + "@" + domain
	}

	l, err := ldap.DialURL(s.cfg.LDAPServer)
	if err != nil {
		s.logr.Error("LDAP dial failed", zap.Error(err), zap.String("server", s.cfg.LDAPServer))
		return nil, fmt.Errorf("ldap connection failed")
	}
	defer func() {
		if closeErr := l.Close(); closeErr != nil {
			s.logr.Debug("LDAP close error (usually harmless)", zap.Error(closeErr))
		}
	}()
	l.SetTimeout(30 * time.Second)

	if err = l.Bind(bindDN, password); err != nil {
		s.logr.Warn("LDAP bind failed", zap.String("username", cleanUsername))
		return nil, ErrInvalidCredentials
	}

	searchReq := ldap.NewSearchRequest(
		s.cfg.LDAPBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1,
		0,
		false,
		fmt.Sprintf("(sAMAccountName=%s)", ldap.EscapeFilter(cleanUsername)),
		[]string{"cn", "displayName", "mail", "employeeID", "title"},
		nil,
	)
	sr, err := l.Search(searchReq)
	if err != nil {
		s.logr.Error("LDAP search failed", zap.Error(err), zap.String("username", cleanUsername))
		return nil, fmt.Errorf("user lookup failed")
	}
	if len(sr.Entries) == 0 {
		s.logr.Warn("LDAP: no entry found", zap.String("username", cleanUsername))
		return nil, ErrInvalidCredentials
	}

	entry := sr.Entries[0]
	mailAttr := entry.GetAttributeValue("mail")
	if mailAttr == "" {
		s.logr.Error("LDAP user missing email", zap.String("username", cleanUsername))
		return nil, fmt.Errorf("user account missing email")
	}
	fullName := firstNonEmpty(entry.GetAttributeValue("displayName"), entry.GetAttributeValue("cn"), cleanUsername)
	rank := firstNonEmpty(entry.GetAttributeValue("title"), defaultRank)

	o, err := s.provisionLDAPOfficer(ctx, mailAttr, fullName, entry.GetAttributeValue("employeeID"), rank)
	if err != nil {
		s.logr.Error("failed to provision LDAP officer", zap.Error(err), zap.String("email", mailAttr))
		return nil, err
	}

	s.logr.Info("LDAP login successful", zap.String("officer_id", o.ID), zap.String("username", cleanUsername))
	return s.startSession(ctx, o, "ldap")
}

func (s *AuthService) provisionLDAPOfficer(ctx context.Context, email, fullName, policeID, rank string) (*models.Officer, error) {
	var o models.Officer
	err := s.db.NewSelect().Model(&o).Where("email = ?", email).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		o = models.Officer{
			ID:        uuid.New().String(),
			Email:     email,
			FullName:  fullName,
			PoliceID:  policeID,
			Rank:      rank,
			Provider:  "ldap",
			CreatedAt: time.Now().UTC(),
		}
		if _, err := s.db.NewInsert().Model(&o).Exec(ctx); err != nil {
			return nil, fmt.Errorf("create officer: %w", err)
		}
		s.logr.Info("created LDAP officer", zap.String("email", email), zap.String("officer_id", o.ID))
	case err != nil:
		return nil, fmt.Errorf("lookup officer: %w", err)
	case o.Provider != "ldap":
		o.Provider = "ldap"
		if _, err := s.db.NewUpdate().Model(&o).Column("provider").WherePK().Exec(ctx); err != nil {
			return nil, fmt.Errorf("update provider: %w", err)
		}
	}
	return &o, nil
}

func (s *AuthService) startSession(ctx context.Context, o *models.Officer, method string) (*Session, error) {
	now := time.Now().UTC()
	o.LastLoginAt = &now
	_, _ = s.db.NewUpdate().Model(o).Column("last_login_at").WherePK().Exec(ctx)

	pair, err := s.jwt.GenerateTokenPair(o.ID, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL, o.TokenVersion, method)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &Session{Tokens: pair, Officer: o.Profile()}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.jwt.VerifyToken(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRevoked, err)
	}

	o, err := s.officer(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if o.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenRevoked
	}

	pair, err := s.jwt.GenerateTokenPair(o.ID, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL, o.TokenVersion, claims.AuthMethod)
	if err != nil {
		return nil, err
	}
	return &Session{Tokens: pair, Officer: o.Profile()}, nil
}

// Logout ends every session of the officer by bumping the token version.
func (s *AuthService) Logout(ctx context.Context, officerID string) error {
	res, err := s.db.NewUpdate().
		Model((*models.Officer)(nil)).
		Set("token_version = token_version + 1").
		Where("id = ?", officerID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOfficerNotFound
	}
	return nil
}

// Profile returns the display fields of the signed-in officer.
func (s *AuthService) Profile(ctx context.Context, officerID string) (*models.Profile, error) {
	o, err := s.officer(ctx, officerID)
	if err != nil {
		return nil, err
	}
	return o.Profile(), nil
}

func (s *AuthService) CheckTokenVersion(ctx context.Context, officerID string, tokenVersion int) (bool, error) {
	o, err := s.officer(ctx, officerID)
	if errors.Is(err, ErrOfficerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return o.TokenVersion == tokenVersion, nil
}

// VerifyAccessToken checks an access token for the middleware.
func (s *AuthService) VerifyAccessToken(token string) (*auth.Claims, error) {
	return s.jwt.VerifyToken(token, auth.AccessToken)
}

func (s *AuthService) officer(ctx context.Context, id string) (*models.Officer, error) {
	var o models.Officer
	err := s.db.NewSelect().Model(&o).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfficerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
