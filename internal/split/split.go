package split

import (
	"math"
	"sort"
)

// Pledge types and value types mirror the pledge rows in storage.
const (
	VolunteerOverpay = "volunteer_overpay"
	UnderpayBid      = "underpay_bid"

	ValuePercent = "percent"
	ValueFixed   = "fixed"
)

type Pledge struct {
	ParticipantID int64
	Type          string
	ValueType     string
	// Value holds cents for fixed pledges and hundredths of a percent for
	// percent pledges (1250 = 12.5%).
	Value int64
}

type Transfer struct {
	FromParticipant int64
	ToParticipant   int64
	AmountCents     int64
}

// Allocate computes each participant's share of totalCents after applying
// pledges. participantIDs must be in join order; the leading participants
// absorb the remainder cents of the equal split. The result always sums to
// totalCents.
func Allocate(totalCents int64, participantIDs []int64, pledges []Pledge) map[int64]int64 {
	if len(participantIDs) == 0 {
		return map[int64]int64{}
	}

	n := int64(len(participantIDs))
	// Floor division keeps the remainder non-negative for negative totals
	// (refunds); Go truncates toward zero.
	base := totalCents / n
	if totalCents%n != 0 && totalCents < 0 {
		base--
	}
	targets := make(map[int64]int64, n)
	for _, pid := range participantIDs {
		targets[pid] = base
	}
	remainder := totalCents - base*n
	for _, pid := range participantIDs[:remainder] {
		targets[pid]++
	}

	// Volunteer overpays raise the pledger's target and relieve the other
	// participants by the same amount, pro rata. The extra is capped at what
	// the others owe in total.
	for _, p := range pledges {
		if p.Type != VolunteerOverpay {
			continue
		}
		target, ok := targets[p.ParticipantID]
		if !ok {
			continue
		}
		var extra int64
		switch p.ValueType {
		case ValuePercent:
			extra = percentOf(target, p.Value)
		case ValueFixed:
			extra = p.Value
		}
		if max := sumOthers(targets, participantIDs, p.ParticipantID); extra > max {
			extra = max
		}
		if extra <= 0 {
			continue
		}
		targets[p.ParticipantID] = target + extra
		redistribute(targets, participantIDs, p.ParticipantID, -extra)
	}

	// Underpay bids shift the shortfall onto the other participants,
	// proportionally to their current targets.
	for _, p := range pledges {
		if p.Type != UnderpayBid {
			continue
		}
		target, ok := targets[p.ParticipantID]
		if !ok {
			continue
		}
		var shortfall int64
		switch p.ValueType {
		case ValuePercent:
			shortfall = percentOf(target, p.Value)
		case ValueFixed:
			shortfall = p.Value
		}
		if shortfall > target {
			shortfall = target
		}
		if shortfall <= 0 {
			continue
		}
		targets[p.ParticipantID] = target - shortfall
		redistribute(targets, participantIDs, p.ParticipantID, shortfall)
	}

	// Rounding repair: any residual gap lands on the largest share.
	var sum int64
	for _, amt := range targets {
		sum += amt
	}
	if gap := totalCents - sum; gap != 0 {
		targets[largestTarget(targets, participantIDs)] += gap
	}

	return targets
}

// redistribute spreads delta cents across everyone but exclude, proportionally
// to current targets. Positive delta piles on (an underpay shortfall); negative
// delta relieves (a volunteer overpay). Flooring leaves a few cents
// unassigned; those land on the largest targets one cent each.
func redistribute(targets map[int64]int64, participantIDs []int64, exclude int64, delta int64) {
	var others []int64
	var denom int64
	for _, pid := range participantIDs {
		if pid == exclude {
			continue
		}
		others = append(others, pid)
		denom += targets[pid]
	}
	if len(others) == 0 {
		// No one to absorb the change; the gap repair restores it.
		return
	}
	if denom == 0 {
		denom = 1
	}

	amount, sign := delta, int64(1)
	if amount < 0 {
		amount, sign = -amount, int64(-1)
	}

	add := make(map[int64]int64, len(others))
	var distributed int64
	for _, pid := range others {
		inc := amount * targets[pid] / denom
		add[pid] = sign * inc
		distributed += inc
	}

	leftover := amount - distributed
	sorted := append([]int64(nil), others...)
	sort.Slice(sorted, func(i, j int) bool {
		if targets[sorted[i]] != targets[sorted[j]] {
			return targets[sorted[i]] > targets[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})
	for i := int64(0); i < leftover && i < int64(len(sorted)); i++ {
		add[sorted[i]] += sign
	}

	for pid, inc := range add {
		targets[pid] += inc
	}
}

func sumOthers(targets map[int64]int64, participantIDs []int64, exclude int64) int64 {
	var sum int64
	for _, pid := range participantIDs {
		if pid != exclude {
			sum += targets[pid]
		}
	}
	return sum
}

// Plan produces the transfers that settle the gap between what each
// participant owes (allocations) and what they already paid. Creditors and
// debtors are matched greedily, largest first.
func Plan(allocations, paidCents map[int64]int64) []Transfer {
	type bal struct {
		pid int64
		net int64
	}
	var pos, neg []bal
	for pid, owed := range allocations {
		net := paidCents[pid] - owed
		if net > 0 {
			pos = append(pos, bal{pid: pid, net: net})
		} else if net < 0 {
			neg = append(neg, bal{pid: pid, net: -net})
		}
	}
	sort.Slice(pos, func(i, j int) bool {
		if pos[i].net != pos[j].net {
			return pos[i].net > pos[j].net
		}
		return pos[i].pid < pos[j].pid
	})
	sort.Slice(neg, func(i, j int) bool {
		if neg[i].net != neg[j].net {
			return neg[i].net > neg[j].net
		}
		return neg[i].pid < neg[j].pid
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(pos) && j < len(neg) {
		c := &pos[i]
		d := &neg[j]
		amt := c.net
		if d.net < amt {
			amt = d.net
		}
		if amt > 0 {
			transfers = append(transfers, Transfer{
				FromParticipant: d.pid,
				ToParticipant:   c.pid,
				AmountCents:     amt,
			})
		}
		c.net -= amt
		d.net -= amt
		if c.net == 0 {
			i++
		}
		if d.net == 0 {
			j++
		}
	}
	return transfers
}

func percentOf(target, hundredths int64) int64 {
	return int64(math.Round(float64(target) * float64(hundredths) / 10000.0))
}

func largestTarget(targets map[int64]int64, participantIDs []int64) int64 {
	best := participantIDs[0]
	for _, pid := range participantIDs[1:] {
		if targets[pid] > targets[best] {
			best = pid
		}
	}
	return best
}
