package scope

import "testing"

func TestIDIn_EmptySetFailsClosed(t *testing.T) {
	f := IDIn("group_id", nil)
	if !f.IsMatchNone() {
		t.Error("空 id 集合必须收敛为 MatchNone，而不是放行全部")
	}
	if f.AllowsID("any") {
		t.Error("MatchNone 不应放行任何行")
	}

	f = IDIn("group_id", []string{})
	if !f.IsMatchNone() {
		t.Error("空 slice 同样必须收敛为 MatchNone")
	}
}

func TestIDEq_EmptyIDFailsClosed(t *testing.T) {
	f := IDEq("id", "")
	if !f.IsMatchNone() {
		t.Error("空 id 必须收敛为 MatchNone")
	}
}

func TestMatchAll_AllowsEverything(t *testing.T) {
	f := MatchAll()
	if !f.IsMatchAll() {
		t.Error("期望 IsMatchAll=true")
	}
	if !f.AllowsID("anything") {
		t.Error("MatchAll 应放行任意行")
	}
}

func TestIDIn_AllowsOnlyListed(t *testing.T) {
	f := IDIn("assignment_id", []string{"a-1", "a-2"})
	if f.IsMatchAll() || f.IsMatchNone() {
		t.Fatal("非空集合应为 id 过滤谓词")
	}
	if !f.AllowsID("a-1") || !f.AllowsID("a-2") {
		t.Error("集合内 id 应放行")
	}
	if f.AllowsID("a-3") {
		t.Error("集合外 id 不应放行")
	}
	if f.Column() != "assignment_id" {
		t.Errorf("期望列名 assignment_id，实际=%s", f.Column())
	}
}

func TestFilter_IDsReturnsCopy(t *testing.T) {
	f := IDIn("id", []string{"x"})
	ids := f.IDs()
	ids[0] = "mutated"
	if !f.AllowsID("x") {
		t.Error("修改 IDs() 返回值不应影响谓词本身")
	}
}
