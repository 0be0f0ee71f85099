package handler

const (
	errInternalServer = "Internal server error"

	errAuthRequired       = "Authentication required"
	errInvalidToken       = "Invalid token"
	errInvalidCredentials = "Invalid email or password"
	errCredentialsBody    = "A valid email and a password of 6 to 72 characters are required"
	errEmailTaken         = "Email is already registered"
	errUserNotFound       = "User not found"

	errInvalidBody   = "Invalid request body"
	errInvalidTaskID = "Invalid task ID"
	errTaskNotFound  = "Task not found"
)
