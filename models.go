package guard

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the persisted identity. Created exactly once per distinct
// (email, provider) pair during first login, mutated by profile updates,
// never deleted by this package.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64          `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Username     string         `bun:"username,nullzero,unique" json:"username,omitempty"`
	DisplayName  string         `bun:"display_name" json:"display_name,omitempty"`
	Email        string         `bun:"email,notnull,unique:users_email_provider" json:"email,omitempty"`
	AuthProvider string         `bun:"auth_provider,nullzero,unique:users_email_provider" json:"auth_provider,omitempty"`
	AvatarURL    string         `bun:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash string         `bun:"password_hash" json:"-"`
	Links        map[string]any `bun:"links,type:jsonb" json:"links,omitempty"`
	Metadata     map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	CreatedAt    *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt    *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasUsername reports whether the account completed signup.
func (u *User) HasUsername() bool {
	return u != nil && u.Username != ""
}

// AddMetadata appends information to the metadata attribute.
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// AddLink appends a link to the links attribute.
func (u *User) AddLink(name string, url any) *User {
	if u.Links == nil {
		u.Links = make(map[string]any)
	}
	u.Links[name] = url
	return u
}

// Team is a named group of users. The root team grants TierRoot to its
// members.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:tm"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Name        string     `bun:"name,notnull" json:"name,omitempty"`
	Description string     `bun:"description" json:"description,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// UserTeam links a user to a team.
type UserTeam struct {
	bun.BaseModel `bun:"table:user_teams,alias:ut"`

	UserID    int64      `bun:"user_id,pk" json:"user_id,omitempty"`
	TeamID    int64      `bun:"team_id,pk" json:"team_id,omitempty"`
	User      *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Team      *Team      `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
	Role      string     `bun:"role" json:"role,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
