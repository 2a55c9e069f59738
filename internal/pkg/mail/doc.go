// Package mail sends plain email. The OTP email channel is its only caller.
package mail
