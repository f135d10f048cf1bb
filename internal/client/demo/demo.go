// Package demo holds the two built-in accounts that work without a server,
// along with the sample leave data shown to them.
package demo

import (
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// Local collections in the key-value store.
const (
	CollectionEmployeeRequests = "employee-leave-requests"
	// CollectionManagerPending is written on submit but never read; it is kept
	// only for compatibility with the original demo's storage layout.
	CollectionManagerPending = "manager-pending-requests"
	// CollectionSampleReviews holds the manager's decisions on TeamRequests.
	CollectionSampleReviews = "manager-reviewed-samples"
)

const (
	ManagerToken  = "manager-hardcoded-token"
	EmployeeToken = "employee-hardcoded-token"
)

// Account is a built-in login.
type Account struct {
	Password string
	Token    string
	Identity models.Identity
}

var (
	Manager = Account{
		Password: "1234",
		Token:    ManagerToken,
		Identity: models.Identity{
			ID:       999,
			Username: "manager",
			FullName: "Built-in Manager",
			Email:    "manager@example.com",
			Role:     models.RoleManager,
		},
	}
	Employee = Account{
		Password: "4321",
		Token:    EmployeeToken,
		Identity: models.Identity{
			ID:       998,
			Username: "employee",
			FullName: "Built-in Employee",
			Email:    "employee@example.com",
			Role:     models.RoleEmployee,
		},
	}
)

var accounts = []Account{Manager, Employee}

// ByCredentials returns the built-in account matching username and password.
func ByCredentials(username, password string) (Account, bool) {
	for _, a := range accounts {
		if a.Identity.Username == username && a.Password == password {
			return a, true
		}
	}
	return Account{}, false
}

// ByToken returns the built-in account owning token.
func ByToken(token string) (Account, bool) {
	for _, a := range accounts {
		if a.Token == token {
			return a, true
		}
	}
	return Account{}, false
}

// IsManager and IsEmployee identify the built-in accounts by id.
func IsManager(id models.Identity) bool  { return id.ID == Manager.Identity.ID }
func IsEmployee(id models.Identity) bool { return id.ID == Employee.Identity.ID }

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func str(s string) *string { return &s }

// TeamRequests is the sample "all requests" list of the built-in manager.
func TeamRequests() []models.LeaveRequest {
	return []models.LeaveRequest{
		{
			ID: 1, UserID: 2, FullName: "John Doe",
			StartDate: "2023-10-15", EndDate: "2023-10-20", Reason: "Family vacation",
			Status:    models.StatusPending,
			CreatedAt: day("2023-10-01T00:00:00Z"), UpdatedAt: day("2023-10-01T00:00:00Z"),
		},
		{
			ID: 2, UserID: 3, FullName: "Jane Smith",
			StartDate: "2023-11-05", EndDate: "2023-11-07", Reason: "Medical appointment",
			Status:    models.StatusPending,
			CreatedAt: day("2023-10-20T00:00:00Z"), UpdatedAt: day("2023-10-20T00:00:00Z"),
		},
		{
			ID: 3, UserID: 4, FullName: "Alice Johnson",
			StartDate: "2023-09-10", EndDate: "2023-09-15", Reason: "Personal leave",
			Status: models.StatusApproved, ManagerComment: str("Approved as requested"),
			CreatedAt: day("2023-08-25T00:00:00Z"), UpdatedAt: day("2023-08-28T00:00:00Z"),
		},
		{
			ID: 4, UserID: 5, FullName: "Bob Brown",
			StartDate: "2023-08-01", EndDate: "2023-08-05", Reason: "Family emergency",
			Status: models.StatusRejected, ManagerComment: str("Insufficient staffing during this period"),
			CreatedAt: day("2023-07-20T00:00:00Z"), UpdatedAt: day("2023-07-22T00:00:00Z"),
		},
	}
}

// ManagerOwnRequests is the sample "my requests" list of the built-in manager.
func ManagerOwnRequests() []models.LeaveRequest {
	name := Manager.Identity.FullName
	uid := Manager.Identity.ID
	return []models.LeaveRequest{
		{
			ID: 5, UserID: uid, FullName: name,
			StartDate: "2023-12-24", EndDate: "2023-12-31", Reason: "End of year vacation",
			Status: models.StatusApproved, ManagerComment: str("Have a good holiday!"),
			CreatedAt: day("2023-11-15T00:00:00Z"), UpdatedAt: day("2023-11-16T00:00:00Z"),
		},
		{
			ID: 6, UserID: uid, FullName: name,
			StartDate: "2023-07-01", EndDate: "2023-07-10", Reason: "Summer vacation",
			Status:    models.StatusApproved,
			CreatedAt: day("2023-06-01T00:00:00Z"), UpdatedAt: day("2023-06-02T00:00:00Z"),
		},
		{
			ID: 7, UserID: uid, FullName: name,
			StartDate: "2024-01-15", EndDate: "2024-01-18", Reason: "Personal leave",
			Status:    models.StatusPending,
			CreatedAt: day("2023-12-20T00:00:00Z"), UpdatedAt: day("2023-12-20T00:00:00Z"),
		},
	}
}

// EmployeeOwnRequests is the sample shown before the built-in employee's own
// submissions.
func EmployeeOwnRequests() []models.LeaveRequest {
	return []models.LeaveRequest{
		{
			ID: 10, UserID: Employee.Identity.ID, FullName: Employee.Identity.FullName,
			StartDate: "2024-03-10", EndDate: "2024-03-15", Reason: "Family vacation",
			Status:    models.StatusPending,
			CreatedAt: day("2024-02-15T00:00:00Z"), UpdatedAt: day("2024-02-15T00:00:00Z"),
		},
	}
}
