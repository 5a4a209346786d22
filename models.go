package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is the account model. The identity key (api_key column) is the
// long-lived bearer secret; it is generated once at registration and only
// rotated out-of-band.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Nickname      string     `bun:"nickname,notnull" json:"nickname,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Admin         bool       `bun:"is_admin,notnull,default:false" json:"is_admin,omitempty"`
	APIKey        string     `bun:"api_key,notnull,unique" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	LoggedInAt    *time.Time `bun:"loggedin_at,nullzero" json:"loggedin_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// IsAdmin reports whether the account carries the administrator role flag.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Admin
}

// Article is a piece of owned, visibility-controlled content.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:art"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	AuthorID      int64      `bun:"author_id,notnull" json:"author_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Content       string     `bun:"content" json:"content,omitempty"`
	Published     bool       `bun:"published,notnull,default:false" json:"published,omitempty"`
	Listed        bool       `bun:"listed,notnull,default:false" json:"listed,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID satisfies the Owned capability.
func (a *Article) OwnerID() int64 {
	return a.AuthorID
}

// IsPublic satisfies the VisibilityControlled capability. Unpublished
// articles are only visible to their owner or an administrator.
func (a *Article) IsPublic() bool {
	return a.Published
}

// Comment belongs to an article and is owned by its author. Comments have
// no visibility flag; they inherit the article's.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	ArticleID     int64      `bun:"article_id,notnull" json:"article_id,omitempty"`
	AuthorID      int64      `bun:"author_id,notnull" json:"author_id,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID satisfies the Owned capability.
func (c *Comment) OwnerID() int64 {
	return c.AuthorID
}
