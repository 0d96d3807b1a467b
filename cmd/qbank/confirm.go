package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/YuDongZhang/InterviewQuestion/application/ports"
)

// newConfirmer asks on the terminal, or always agrees when yes is set.
func newConfirmer(yes bool) ports.Confirmer {
	if yes {
		return ports.Confirmed(true)
	}
	return ports.ConfirmFunc(promptConfirm)
}

func promptConfirm(ctx context.Context, prompt string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(prompt).
		Affirmative("确定").
		Negative("取消").
		Value(&ok)
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
