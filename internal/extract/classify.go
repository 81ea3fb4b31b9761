package extract

import "strings"

// Task marker phrases. Input carrying one of these routes to task parsing;
// everything else is treated as a bill.
var (
	taskPrefixes = []string{"任务", "添加任务", "新建任务", "创建任务"}
	taskMarkers  = []string{"任务：", "任务:"}
)

// IsTaskRequest reports whether free text should be parsed as a task.
// Pure function of the input: same text, same route, always.
func IsTaskRequest(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range taskPrefixes {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	for _, marker := range taskMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
