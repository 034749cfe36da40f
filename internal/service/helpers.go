package service

// Default page sizes per listing. Attendance reports page widest since
// a class roster for a month easily runs past a hundred rows.
const (
	defaultUserPageSize       = 20
	defaultStudentPageSize    = 10
	defaultAttendancePageSize = 50
	maxPageSize               = 100
)

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
