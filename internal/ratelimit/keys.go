package ratelimit

// Key builders for the windows the application maintains. Keeping them
// here prevents handler and service code from drifting apart on the
// exact key shape, which matters because verification clears the OTP
// keys for a phone.

func SendOTPKey(phone string) string   { return "send-otp:" + phone }
func VerifyOTPKey(phone string) string { return "verify-otp:" + phone }

func RoleUpdateKey(userID string) string { return "update-role:" + userID }

func PlacesKey(op, ip string) string { return "places-" + op + ":" + ip }
