package notify

import "log"

// Notifier is the fire-and-forget notification sink. Delivery is
// at-most-once; callers ignore returned errors.
type Notifier interface {
	NotifySpendingProposed(e SpendingProposedEvent) error
	NotifySpendingApproved(e SpendingApprovedEvent) error
	NotifySpendingRejected(e SpendingRejectedEvent) error
	NotifyMemberAdded(e MemberAddedEvent) error
	NotifyMemberRemoved(e MemberRemovedEvent) error
	NotifyModificationProposed(e ModificationProposedEvent) error
	NotifyModificationDecided(e ModificationDecidedEvent) error
}

// NoopNotifier is a no-op implementation used in tests and when no sink
// is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifySpendingProposed(SpendingProposedEvent) error         { return nil }
func (NoopNotifier) NotifySpendingApproved(SpendingApprovedEvent) error         { return nil }
func (NoopNotifier) NotifySpendingRejected(SpendingRejectedEvent) error         { return nil }
func (NoopNotifier) NotifyMemberAdded(MemberAddedEvent) error                   { return nil }
func (NoopNotifier) NotifyMemberRemoved(MemberRemovedEvent) error               { return nil }
func (NoopNotifier) NotifyModificationProposed(ModificationProposedEvent) error { return nil }
func (NoopNotifier) NotifyModificationDecided(ModificationDecidedEvent) error   { return nil }

// LogNotifier writes events to the process log. The push-delivery
// transport lives outside this service.
type LogNotifier struct{}

func (LogNotifier) NotifySpendingProposed(e SpendingProposedEvent) error {
	log.Printf("notify: spending %s (%s) proposed on project %q by %s, awaiting %d votes",
		e.ReferenceCode, e.Amount.StringFixed(2), e.ProjectName, e.ProposerName, e.PendingVoters)
	return nil
}

func (LogNotifier) NotifySpendingApproved(e SpendingApprovedEvent) error {
	log.Printf("notify: spending %s (%s) on project %q approved and added to expense history",
		e.ReferenceCode, e.Amount.StringFixed(2), e.ProjectName)
	return nil
}

func (LogNotifier) NotifySpendingRejected(e SpendingRejectedEvent) error {
	log.Printf("notify: spending %s rejected by %s", e.ReferenceCode, e.RejectorName)
	return nil
}

func (LogNotifier) NotifyMemberAdded(e MemberAddedEvent) error {
	log.Printf("notify: %s added to project %q as %s", e.UserName, e.ProjectName, e.Role)
	return nil
}

func (LogNotifier) NotifyMemberRemoved(e MemberRemovedEvent) error {
	log.Printf("notify: user %d removed from project %d", e.UserID, e.ProjectID)
	return nil
}

func (LogNotifier) NotifyModificationProposed(e ModificationProposedEvent) error {
	log.Printf("notify: %s modification %q proposed on project %q, %d votes required",
		e.Type, e.Title, e.ProjectName, e.TotalVoters)
	return nil
}

func (LogNotifier) NotifyModificationDecided(e ModificationDecidedEvent) error {
	log.Printf("notify: modification %q on project %d resolved as %s", e.Title, e.ProjectID, e.Status)
	return nil
}
