package models

type AccountType = string

const (
	AccountTypePatient = AccountType("Patient")
	AccountTypeExpert  = AccountType("Expert")
	AccountTypeAdmin   = AccountType("Admin")
)

// Account profiles basically fetched from the platform's auth provider
// But cache at here for better usage and database relations
type Account struct {
	BaseModel

	Name   string      `json:"name" gorm:"uniqueIndex"`
	Nick   string      `json:"nick"`
	Avatar *string     `json:"avatar"`
	Type   AccountType `json:"type"`

	ChatRequests []ChatRequest `json:"chat_requests" gorm:"foreignKey:OwnerID"`
	Chats        []Chat        `json:"chats" gorm:"foreignKey:OwnerID"`
}
