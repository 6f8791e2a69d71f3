package domain

// Channel names are routing labels on the realtime transport. The identity
// channel is the sole addressing mechanism for targeted server pushes.
// Each kind carries its own prefix so a client-supplied group id can never
// collide with an identity or role channel.

func UserChannel(id UserID) string {
	return "user_" + string(id)
}

func RoleChannel(role Role) string {
	return "role_" + string(role)
}

func GroupChannel(id GroupID) string {
	return "group_" + string(id)
}
