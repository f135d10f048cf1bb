package access

import "github.com/dmitrijs2005/leavekeeper/internal/models"

// View is a navigable screen of the client.
type View string

const (
	ViewLogin      View = "login"
	ViewRegister   View = "register"
	ViewDashboard  View = "dashboard"
	ViewNewRequest View = "new"
	ViewMyRequests View = "my-requests"
	ViewAll        View = "all"
)

type route struct {
	public       bool
	requiredRole models.Role
}

var routes = map[View]route{
	ViewLogin:      {public: true},
	ViewRegister:   {public: true},
	ViewDashboard:  {},
	ViewNewRequest: {},
	ViewMyRequests: {},
	ViewAll:        {requiredRole: models.RoleManager},
}

// Guard returns the view a navigation to v actually lands on. Unauthenticated
// users (id == nil) are sent to the login view, users lacking the view's role
// to the dashboard, unknown views fall back to the dashboard. Guard never
// fails: redirection is the policy.
func Guard(id *models.Identity, v View) View {
	r, ok := routes[v]
	if !ok {
		if id == nil {
			return ViewLogin
		}
		return ViewDashboard
	}
	if r.public {
		return v
	}
	if id == nil {
		return ViewLogin
	}
	if r.requiredRole != "" && id.Role != r.requiredRole {
		return ViewDashboard
	}
	return v
}

// MenuItem is an entry of the dashboard.
type MenuItem struct {
	View  View
	Title string
	Hint  string
}

// Menu lists the dashboard entries available to id.
func Menu(id models.Identity) []MenuItem {
	items := []MenuItem{
		{View: ViewNewRequest, Title: "Request Leave", Hint: "Submit a new leave request for approval."},
		{View: ViewMyRequests, Title: "My Leave Requests", Hint: "View all your leave requests and their status."},
	}
	if CanViewAllRequests(id) {
		items = append(items, MenuItem{View: ViewAll, Title: "Manage Requests", Hint: "Review and manage leave requests from employees."})
	}
	return items
}
