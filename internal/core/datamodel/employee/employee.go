package employee

// Employee is the persisted shape of one entry in the "employees" collection.
type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Department string   `json:"department"`
	Salary     *float64 `json:"salary,omitempty"`
	JoinDate   string   `json:"joinDate"`
}
