package escrow

import "sort"

// SplitShares divides locked evenly among the given members. Every member
// receives the integer quotient; the remainder is assigned one base unit at
// a time in ascending member-id order until exhausted, so the result is
// deterministic and sums to locked exactly.
func SplitShares(locked int64, memberIDs []int64) []Share {
	if len(memberIDs) == 0 {
		return nil
	}

	ids := make([]int64, len(memberIDs))
	copy(ids, memberIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	n := int64(len(ids))
	quotient := locked / n
	remainder := locked % n

	shares := make([]Share, len(ids))
	for i, id := range ids {
		amount := quotient
		if int64(i) < remainder {
			amount++
		}
		shares[i] = Share{MemberID: id, Amount: amount}
	}
	return shares
}

// SumShares returns the total amount across shares.
func SumShares(shares []Share) int64 {
	var sum int64
	for _, share := range shares {
		sum += share.Amount
	}
	return sum
}
