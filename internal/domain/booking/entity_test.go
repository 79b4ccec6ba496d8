package booking

import (
	"errors"
	"testing"
	"time"
)

func TestNewBooking(t *testing.T) {
	slot := time.Now().Add(48 * time.Hour)
	b := NewBooking(3, 7, slot)

	if b.ID == "" {
		t.Error("预订号不应为空")
	}
	if b.Status != BookingStatusPending {
		t.Errorf("新预订状态应为PENDING,实际: %s", b.Status)
	}
	if b.ServiceID != 3 || b.UserID != 7 {
		t.Errorf("字段回填不正确: %+v", b)
	}
	if !b.SlotAt.Equal(slot) {
		t.Errorf("预约时段应为%v,实际: %v", slot, b.SlotAt)
	}

	// 预订号必须唯一
	b2 := NewBooking(3, 7, slot)
	if b.ID == b2.ID {
		t.Error("两次创建的预订号不应相同")
	}
}

func TestBooking_Confirm(t *testing.T) {
	b := NewBooking(1, 1, time.Now().Add(24*time.Hour))

	if err := b.Confirm(); err != nil {
		t.Fatalf("PENDING预订确认应成功: %v", err)
	}
	if b.Status != BookingStatusInProgress {
		t.Errorf("确认后状态应为IN_PROGRESS,实际: %s", b.Status)
	}

	// 重复确认应失败
	if err := b.Confirm(); !errors.Is(err, ErrBookingNotConfirmable) {
		t.Errorf("IN_PROGRESS预订重复确认应返回ErrBookingNotConfirmable,实际: %v", err)
	}
}

func TestBooking_Complete(t *testing.T) {
	b := NewBooking(1, 1, time.Now().Add(24*time.Hour))

	// PENDING不能直接完成
	if err := b.Complete("before.jpg", "after.jpg"); !errors.Is(err, ErrBookingNotInProgress) {
		t.Errorf("PENDING预订完成应返回ErrBookingNotInProgress,实际: %v", err)
	}

	if err := b.Confirm(); err != nil {
		t.Fatal(err)
	}
	if err := b.Complete("before.jpg", "after.jpg"); err != nil {
		t.Fatalf("IN_PROGRESS预订完成应成功: %v", err)
	}
	if b.Status != BookingStatusCompleted {
		t.Errorf("完成后状态应为COMPLETED,实际: %s", b.Status)
	}
	if b.BeforeImageURL != "before.jpg" || b.AfterImageURL != "after.jpg" {
		t.Errorf("服务照片未回填: %+v", b)
	}

	// COMPLETED是终态
	if err := b.Complete("x.jpg", "y.jpg"); !errors.Is(err, ErrBookingNotInProgress) {
		t.Errorf("COMPLETED预订重复完成应返回ErrBookingNotInProgress,实际: %v", err)
	}
}

func TestBooking_IsOwnedBy(t *testing.T) {
	b := NewBooking(1, 42, time.Now())
	if !b.IsOwnedBy(42) {
		t.Error("预订应属于用户42")
	}
	if b.IsOwnedBy(43) {
		t.Error("预订不应属于用户43")
	}
}
