package cesk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromiseStateSetIsImmutable(t *testing.T) {
	p := PromiseState{}
	p2 := p.Set(0, PromiseValue{Status: Pending})

	require.Equal(t, NotPromise, p.Get(0).Status, "Set must not mutate the receiver")
	require.Equal(t, Pending, p2.Get(0).Status)
}

func TestReactionTableAppendPreservesOrder(t *testing.T) {
	var t1 ReactionTable
	t1 = t1.Append(0, Reaction{Handler: Cst{Value: "first"}, Child: 1})
	t1 = t1.Append(0, Reaction{Handler: Cst{Value: "second"}, Child: 2})

	require.Len(t, t1[0], 2)
	require.Equal(t, Cst{Value: "first"}, t1[0][0].Handler)
	require.Equal(t, Cst{Value: "second"}, t1[0][1].Handler)
}

func TestReactionTableClearRemovesOnlyThatAddress(t *testing.T) {
	var rt ReactionTable
	rt = rt.Append(0, Reaction{Handler: Cst{Value: "a"}, Child: 1})
	rt = rt.Append(1, Reaction{Handler: Cst{Value: "b"}, Child: 2})

	cleared := rt.Clear(0)

	require.Empty(t, cleared[0])
	require.Len(t, cleared[1], 1)
	require.Len(t, rt[0], 1, "Clear must not mutate the receiver")
}

func TestLinkQueuePushPopFIFO(t *testing.T) {
	var q LinkQueue
	q = q.Push(LinkEntry{Target: 1})
	q = q.Push(LinkEntry{Target: 2})

	head, rest, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, Address(1), head.Target)
	require.Len(t, rest, 1)
	require.Equal(t, Address(2), rest[0].Target)

	_, _, ok = LinkQueue(nil).Pop()
	require.False(t, ok)
}

func TestReactionQueuePushPopFIFO(t *testing.T) {
	var q ReactionQueue
	q = q.Push(ReactionEntry{Child: 1})
	q = q.Push(ReactionEntry{Child: 2})

	head, rest, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, Address(1), head.Child)
	require.Len(t, rest, 1)
	require.Equal(t, Address(2), rest[0].Child)
}

func TestAppendCopyDoesNotAliasBackingArray(t *testing.T) {
	base := make([]int, 0, 4)
	base = append(base, 1)

	a := appendCopy(base, 2)
	b := appendCopy(base, 3)

	require.Equal(t, []int{1, 2}, a)
	require.Equal(t, []int{1, 3}, b, "two branches built from the same base must not alias each other's backing array")
}
