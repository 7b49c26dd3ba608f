package devserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-church-admin/internal/utils"
	"github.com/jrsteele09/go-church-admin/resources"
	"github.com/jrsteele09/go-church-admin/token"
	"github.com/jrsteele09/go-church-admin/users"
)

// SeedAccounts are created on start-up, one per role.
var SeedAccounts = []users.User{
	{Email: "admin@church.local", FirstName: "Church", LastName: "Administrator", Role: token.RoleAdmin},
	{Email: "staff@church.local", FirstName: "Ministry", LastName: "Staff", Role: token.RoleStaff},
	{Email: "member@church.local", FirstName: "Congregation", LastName: "Member", Role: token.RoleMember},
}

// seedUsers creates the seed accounts that do not exist yet. It returns the
// password they were given.
func (s *Server) seedUsers(_ context.Context) (string, error) {
	password := s.config.GetSeedPassword()
	if password != "" {
		if err := users.ValidatePasswordStrength(password); err != nil {
			return "", fmt.Errorf("[devserver seedUsers] seed password: %w", err)
		}
	} else {
		passwordBytes := make([]byte, 12)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("[devserver seedUsers] failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("[devserver seedUsers] failed to hash password: %w", err)
	}

	directory := s.store.Collection("users")
	for _, account := range SeedAccounts {
		if _, err := s.users.GetByEmail(account.Email); err == nil {
			continue
		}
		u := account
		u.PasswordHash = passwordHash
		u.Status = users.StatusActive
		u.DateJoined = token.NowTimeFunc()
		if err := s.users.Upsert(&u); err != nil {
			return "", fmt.Errorf("[devserver seedUsers] failed to create %s: %w", u.Email, err)
		}
		if _, err := directory.Seed(resources.User{
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			UserType:  string(u.Role),
			Status:    string(u.Status),
		}); err != nil {
			return "", err
		}
		s.logger.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("seeded account")
	}
	s.logger.Info().Str("password", password).Msg("seed account password")
	return password, nil
}

func (s *Server) seedResources() {
	ministries := s.store.Collection("ministry")
	if len(ministries.List()) > 0 {
		return
	}

	seed := func(kind string, v any) int64 {
		item, err := s.store.Collection(kind).Seed(v)
		if err != nil {
			s.logger.Warn().Err(err).Str("kind", kind).Msg("seeding resource")
			return 0
		}
		id, _ := item[s.store.Collection(kind).IDKey()].(int64)
		return id
	}

	worship := seed("ministry", resources.Ministry{Name: "Worship", Type: "Music", Description: "Sunday services and choir"})
	youth := seed("ministry", resources.Ministry{Name: "Youth", Type: "Outreach", Description: "Youth group and camps"})

	choir := seed("teams", resources.Team{MinistryID: worship, MinistryName: "Worship", Name: "Choir", MeetingSchedule: "Thursdays 19:00"})
	seed("teams", resources.Team{MinistryID: youth, MinistryName: "Youth", Name: "Camp Leaders", MeetingSchedule: "Monthly"})

	smiths := seed("families", resources.Family{FamilyName: "Smith"})
	seed("members", resources.Member{UserID: 3, MembershipStatus: "active", FamilyID: utils.Ptr(smiths), FamilyRelationship: "head"})
	seed("staff", resources.Staff{UserID: 2, Position: "Worship Leader", MinistryID: utils.Ptr(worship), EmploymentType: "part-time", HireDate: "2023-01-09", IsActive: true})

	seed("events", resources.Event{
		MinistryID: worship,
		TeamID:     utils.Ptr(choir),
		Title:      "Christmas Concert",
		StartDate:  "2025-12-20T18:00:00Z",
		Location:   "Main Hall",
		Status:     resources.EventPlanned,
	})
}
