package event

import (
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/validator"
)

// Group is a role or office whose members are invited through a presence flag.
type Group string

const (
	GroupRD    Group = "RD"
	GroupARD   Group = "ARD"
	GroupLGMED Group = "LGMED"
	GroupLGCDD Group = "LGCDD"
	GroupORD   Group = "ORD"
	GroupFAD   Group = "FAD"
	GroupPDMU  Group = "PDMU"
	GroupRICTU Group = "RICTU"
	GroupLEGAL Group = "LEGAL"
)

var officeGroups = []struct {
	group  Group
	office string
}{
	{GroupLGMED, user.OfficeLGMED},
	{GroupLGCDD, user.OfficeLGCDD},
	{GroupORD, user.OfficeORD},
	{GroupFAD, user.OfficeFAD},
	{GroupPDMU, user.OfficePDMU},
	{GroupRICTU, user.OfficeRICTU},
	{GroupLEGAL, user.OfficeLEGAL},
}

// GroupsFor lists the groups selected by p in flag order.
func GroupsFor(p event.Presence) []Group {
	flags := []struct {
		on    bool
		group Group
	}{
		{p.NeedRD, GroupRD},
		{p.NeedARD, GroupARD},
		{p.NeedLGMED, GroupLGMED},
		{p.NeedLGCDD, GroupLGCDD},
		{p.NeedORD, GroupORD},
		{p.NeedFAD, GroupFAD},
		{p.NeedPDMU, GroupPDMU},
		{p.NeedRICTU, GroupRICTU},
		{p.NeedLEGAL, GroupLEGAL},
	}

	var groups []Group
	for _, f := range flags {
		if f.on {
			groups = append(groups, f.group)
		}
	}
	return groups
}

// Directory maps each group to the emails of its approved members.
type Directory struct {
	members map[Group][]string
	index   map[Group]map[string]bool
}

// NewDirectory groups approved users by role, then by office. Directors are
// reachable only through the RD and ARD groups.
func NewDirectory(users []user.User) Directory {
	d := Directory{
		members: make(map[Group][]string),
		index:   make(map[Group]map[string]bool),
	}
	for _, u := range users {
		if !u.IsApproved {
			continue
		}
		email := validator.NormalizeEmail(u.Email)

		switch u.JobPosition {
		case user.PositionRegionalDirector:
			d.add(GroupRD, email)
		case user.PositionAssistantRegionalDirector:
			d.add(GroupARD, email)
		}
		if u.IsDirector() {
			continue
		}

		for _, og := range officeGroups {
			if u.AssignedOffice == og.office {
				d.add(og.group, email)
			}
		}
	}
	return d
}

func (d Directory) add(g Group, email string) {
	if d.index[g] == nil {
		d.index[g] = make(map[string]bool)
	}
	if d.index[g][email] {
		return
	}
	d.index[g][email] = true
	d.members[g] = append(d.members[g], email)
}

// Members returns the emails of g in directory order.
func (d Directory) Members(g Group) []string {
	return d.members[g]
}

func (d Directory) has(g Group, email string) bool {
	return d.index[g][email]
}

// InviteeSet tracks an invitee list as groups are toggled and addresses are
// typed in by hand. Manually added addresses survive every toggle.
type InviteeSet struct {
	dir     Directory
	active  map[Group]bool
	manual  map[string]bool
	present map[string]bool
	order   []string
}

func NewInviteeSet(dir Directory) *InviteeSet {
	return &InviteeSet{
		dir:     dir,
		active:  make(map[Group]bool),
		manual:  make(map[string]bool),
		present: make(map[string]bool),
	}
}

// Toggle switches group g on or off.
func (s *InviteeSet) Toggle(g Group, on bool) {
	if s.active[g] == on {
		return
	}

	if on {
		s.active[g] = true
		for _, email := range s.dir.Members(g) {
			s.add(email)
		}
		return
	}

	delete(s.active, g)
	for _, email := range s.dir.Members(g) {
		if s.manual[email] || s.derived(email) {
			continue
		}
		s.remove(email)
	}
}

func (s *InviteeSet) AddManual(email string) {
	email = validator.NormalizeEmail(email)
	if email == "" {
		return
	}
	s.manual[email] = true
	s.add(email)
}

func (s *InviteeSet) RemoveManual(email string) {
	email = validator.NormalizeEmail(email)
	if !s.manual[email] {
		return
	}
	delete(s.manual, email)
	if !s.derived(email) {
		s.remove(email)
	}
}

// Emails returns the current invitee list in insertion order.
func (s *InviteeSet) Emails() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *InviteeSet) derived(email string) bool {
	for g := range s.active {
		if s.dir.has(g, email) {
			return true
		}
	}
	return false
}

func (s *InviteeSet) add(email string) {
	if s.present[email] {
		return
	}
	s.present[email] = true
	s.order = append(s.order, email)
}

func (s *InviteeSet) remove(email string) {
	if !s.present[email] {
		return
	}
	delete(s.present, email)
	for i, e := range s.order {
		if e == email {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Resolve computes the invitee list for presence flags p plus manual addresses.
func Resolve(dir Directory, p event.Presence, manual []string) []string {
	set := NewInviteeSet(dir)
	for _, email := range manual {
		set.AddManual(email)
	}
	for _, g := range GroupsFor(p) {
		set.Toggle(g, true)
	}
	return set.Emails()
}
