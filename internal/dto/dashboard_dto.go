package dto

// DashboardResponse aggregates the signed-in user's view of the system:
// how many activities they own and their own attendance history.
type DashboardResponse struct {
	ActivityCount     int64                `json:"activity_count"`
	AttendanceCount   int64                `json:"attendance_count"`
	RecentAttendances []AttendanceResponse `json:"recent_attendances"`
}
