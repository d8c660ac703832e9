package rbac

// ModelText keys policies on the caller role. ADMIN inherits every MANAGER permission.
const ModelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

type Permission struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

var defaultPolicies = []Permission{
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "cancel"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "ai", "chat"},
	{RoleEmployee, "ai", "patterns"},

	{RoleManager, "leave", "read"},
	{RoleManager, "leave", "approve"},
	{RoleManager, "leave", "reject"},
	{RoleManager, "ai", "chat"},
	{RoleManager, "ai", "patterns"},
	{RoleManager, "ai", "insights"},
	{RoleManager, "team", "read"},
	{RoleManager, "user", "read"},

	{RoleAdmin, "user", "register"},
	{RoleAdmin, "user", "assign_manager"},
	{RoleAdmin, "gmail", "connect"},
	{RoleAdmin, "gmail", "poll"},
	{RoleAdmin, "gmail", "send"},
}

var defaultInheritance = [][2]string{
	{RoleAdmin, RoleManager},
}
