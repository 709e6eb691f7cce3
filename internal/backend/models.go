package backend

import "github.com/JonMunkholm/hireboard/internal/core"

// Candidate is a candidate as listed by the backend.
type Candidate struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Experience      string  `json:"experience"`
	CurrentCTC      string  `json:"currentCTC"`
	ExpectedCTC     string  `json:"expectedCTC"`
	NoticePeriod    string  `json:"noticePeriod"`
	Skills          string  `json:"skills"`
	ResumeLink      *string `json:"resumeLink"`
	Status          string  `json:"status"`
	LinkedInProfile string  `json:"linkedInProfile"`
	Notes           string  `json:"notes"`
}

// Ticket tracks a candidate through follow-ups.
type Ticket struct {
	ID               int64  `json:"id"`
	TicketID         string `json:"ticketId"`
	CandidateName    string `json:"candidateName"`
	AssignedTo       string `json:"assignedTo"`
	Status           string `json:"status"`
	NextFollowUpDate string `json:"nextFollowUpDate"`
	Remarks          string `json:"remarks"`
}

// User is a dashboard operator.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DepartmentID   int64  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	RoleID         int64  `json:"roleId"`
	RoleName       string `json:"roleName"`
	CompanyID      int64  `json:"companyId"`
	CompanyName    string `json:"companyName"`
}

type Company struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Logo    string `json:"logo"`
}

type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
}

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
}

// Menu is a navigation entry; the login response carries the menus the
// user's role may see.
type Menu struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Image    string    `json:"image"`
	IsActive bool      `json:"isActive"`
	SubMenus []SubMenu `json:"submenulist"`
}

type SubMenu struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LoginData is the data part of a successful login.
type LoginData struct {
	Token          string `json:"token"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	DepartmentName string `json:"departmentName"`
	RoleName       string `json:"roleName"`
	Menus          []Menu `json:"menulist"`
}

// createdID is the data part of create responses.
type createdID struct {
	ID int64 `json:"id"`
}

// TicketLog is one follow-up entry in a ticket's history.
type TicketLog struct {
	ID               int64  `json:"id"`
	TicketID         int64  `json:"ticketId"`
	Status           string `json:"status"`
	Remarks          string `json:"remarks"`
	NextFollowUpDate string `json:"nextFollowUpDate"`
}

// NewTicket opens a ticket for a candidate and assigns it to a user.
type NewTicket struct {
	ID               int64  `json:"id"`
	CandidateID      int64  `json:"candidateId"`
	UserID           int64  `json:"userId"`
	Status           string `json:"status"`
	Remarks          string `json:"remarks"`
	NextFollowUpDate string `json:"nextFollowUpDate"`
}

// NewCompany is the create payload for a company.
type NewCompany struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NewMenu is the create payload for a top-level menu.
type NewMenu struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

// NewSubMenu is the create payload for an entry under a menu.
type NewSubMenu struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	MenuID int64  `json:"menuId"`
}

// Signup registers a dashboard operator with the menus they may open.
type Signup struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Password     string      `json:"password"`
	DepartmentID int64       `json:"departmentId"`
	CompanyID    int64       `json:"companyId"`
	RoleID       int64       `json:"roleId"`
	Menus        []MenuGrant `json:"menuList"`
}

// MenuGrant gives access to a menu and the listed submenus.
type MenuGrant struct {
	ID       int64     `json:"id"`
	SubMenus []IDGrant `json:"subMenuList"`
}

type IDGrant struct {
	ID int64 `json:"id"`
}

// candidateUpdate is a candidate record addressed by ID.
type candidateUpdate struct {
	ID int64 `json:"id"`
	core.CandidateRecord
}
