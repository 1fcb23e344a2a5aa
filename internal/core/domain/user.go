package domain

// StatusActive is the only account status allowed to log in.
const StatusActive = "active"

// User models an operator of the inventory.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"column:username;uniqueIndex;not null"`
	Email        string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:hashed_password;not null"`
	Role         Role   `json:"role" gorm:"column:role;not null"`
	Status       string `json:"status" gorm:"column:status;not null"`
	Number       string `json:"number,omitempty" gorm:"column:number"`

	// Password carries the plaintext on creation only; it is hashed before persistence.
	Password string `json:"-" gorm:"-"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool { return u.Status == StatusActive }
