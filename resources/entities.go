package resources

type Ministry struct {
	MinistryID  int64  `json:"ministry_id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"member_count,omitempty"`
}

// Team is a ministry team. The same shape is served under /teams and
// /ministry-teams.
type Team struct {
	TeamID          int64  `json:"team_id,omitempty"`
	MinistryID      int64  `json:"ministry_id"`
	MinistryName    string `json:"ministry_name,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	MeetingSchedule string `json:"meeting_schedule,omitempty"`
	MemberCount     int    `json:"member_count,omitempty"`
}

type EventStatus string

const (
	EventPlanned   EventStatus = "Planned"
	EventActive    EventStatus = "Active"
	EventCancelled EventStatus = "Cancelled"
	EventCompleted EventStatus = "Completed"
)

type Event struct {
	EventID           int64       `json:"event_id,omitempty"`
	MinistryID        int64       `json:"ministry_id"`
	TeamID            *int64      `json:"team_id,omitempty"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	StartDate         string      `json:"start_date"`
	EndDate           *string     `json:"end_date,omitempty"`
	Location          string      `json:"location,omitempty"`
	RecurrencePattern string      `json:"recurrence_pattern,omitempty"`
	Status            EventStatus `json:"status"`
	MinistryName      string      `json:"ministry_name,omitempty"`
	TeamName          string      `json:"team_name,omitempty"`
}

// User is a directory account as managed by administrators. It is distinct
// from the signed-in session user.
type User struct {
	UserID      int64  `json:"user_id,omitempty"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	Status      string `json:"status,omitempty"`
	LastLogin   string `json:"last_login,omitempty"`
	Password    string `json:"password,omitempty"`
}

type Family struct {
	FamilyID   int64  `json:"family_id,omitempty"`
	FamilyName string `json:"family_name"`
}

type TeamParticipation struct {
	TeamID   int64  `json:"team_id"`
	Role     string `json:"role"`
	JoinDate string `json:"join_date"`
	EndDate  string `json:"end_date,omitempty"`
	IsActive bool   `json:"is_active"`
}

type EventParticipation struct {
	EventID  int64  `json:"event_id"`
	Role     string `json:"role"`
	JoinDate string `json:"join_date"`
	EndDate  string `json:"end_date,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

type Member struct {
	MemberID           int64                `json:"member_id,omitempty"`
	UserID             int64                `json:"user_id"`
	User               *User                `json:"user,omitempty"`
	JoinDate           string               `json:"join_date,omitempty"`
	MembershipStatus   string               `json:"membership_status"`
	BaptismDate        string               `json:"baptism_date,omitempty"`
	FamilyID           *int64               `json:"family_id,omitempty"`
	Family             *Family              `json:"family,omitempty"`
	FamilyRelationship string               `json:"family_relationship,omitempty"`
	TeamParticipation  []TeamParticipation  `json:"team_participation,omitempty"`
	SpiritualGifts     []string             `json:"spiritual_gifts,omitempty"`
	EventParticipation []EventParticipation `json:"event_participation,omitempty"`
	Notes              string               `json:"notes,omitempty"`
}

type Qualification struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Institution    string `json:"institution"`
	DateEarned     string `json:"date_earned"`
	Expiration     string `json:"expiration,omitempty"`
	VerificationID string `json:"verification_id,omitempty"`
}

type Staff struct {
	StaffID                      int64           `json:"staff_id,omitempty"`
	UserID                       int64           `json:"user_id"`
	User                         *User           `json:"user,omitempty"`
	Position                     string          `json:"position"`
	MinistryID                   *int64          `json:"ministry_id,omitempty"`
	Ministry                     *Ministry       `json:"ministry,omitempty"`
	EmploymentType               string          `json:"employment_type"`
	Salary                       *float64        `json:"salary,omitempty"`
	Qualifications               []Qualification `json:"qualifications,omitempty"`
	Bio                          string          `json:"bio,omitempty"`
	EmergencyContactName         string          `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone        string          `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelationship string          `json:"emergency_contact_relationship,omitempty"`
	Notes                        string          `json:"notes,omitempty"`
	HireDate                     string          `json:"hire_date"`
	EndDate                      string          `json:"end_date,omitempty"`
	IsActive                     bool            `json:"is_active"`
}
