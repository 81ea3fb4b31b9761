package extract

import "testing"

func TestIsTaskRequest(t *testing.T) {
	cases := []struct {
		in   string
		task bool
	}{
		{"任务：买牛奶", true},
		{"任务 紧急提交报告", true},
		{"添加任务 遛狗", true},
		{"新建任务：写周报", true},
		{"创建任务 复习", true},
		{"提醒我一个任务：交房租", true},
		{"  任务：去银行  ", true},
		{"午饭花了35元", false},
		{"收到工资5000元", false},
		{"打车去机场60", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsTaskRequest(tc.in); got != tc.task {
			t.Errorf("IsTaskRequest(%q) = %v, want %v", tc.in, got, tc.task)
		}
	}
}

func TestIsTaskRequestIsStable(t *testing.T) {
	for _, in := range []string{"任务：买牛奶", "午饭花了35元"} {
		first := IsTaskRequest(in)
		for i := 0; i < 10; i++ {
			if IsTaskRequest(in) != first {
				t.Fatalf("classification of %q changed between calls", in)
			}
		}
	}
}
