package calculator

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	alice   = models.Participant{ID: "p1", Name: "Alice"}
	bob     = models.Participant{ID: "p2", Name: "Bob"}
	charlie = models.Participant{ID: "p3", Name: "Charlie"}
)

// tolerance absorbs the 16-digit rounding of non-terminating quotients.
var tolerance = decimal.New(1, -12)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func assertNear(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Sub(got).Abs().LessThanOrEqual(tolerance), "want ~%s, got %s", want, got)
}

func TestComputeBills(t *testing.T) {
	tests := []struct {
		name         string
		receipt      *models.Receipt
		validateFunc func(t *testing.T, res Result)
	}{
		{
			name: "equal split between two people",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{ID: "i1", Name: "Pizza", Price: "51.00", Quantity: "2", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "p2"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				require.Len(t, res.Bills, 2)
				for _, bill := range res.Bills {
					require.Len(t, bill.Lines, 1)
					line := bill.Lines[0]
					assert.Equal(t, "Pizza", line.Name)
					assert.Equal(t, int64(2), line.Quantity)
					assertDecimal(t, "25.50", line.UnitPrice)
					assertDecimal(t, "25.50", line.Amount)
					assertDecimal(t, "25.50", bill.Total)
				}
				assertDecimal(t, "51.00", res.GrandTotal)
				assert.Empty(t, res.Unallocated)
			},
		},
		{
			name: "custom split with sub-items",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{
						ID: "i1", Name: "Platter", Price: "999", SplitMode: models.SplitCustom,
						AssignedTo: []string{"p2"},
						SubItems: []models.SubItem{
							{ID: "s1", Name: "A", Price: "20.00", AssignedTo: []string{"p1"}},
							{ID: "s2", Name: "B", Price: "10.00", AssignedTo: []string{"p1", "p2"}},
						},
					},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				// Alice: 20 + 10/2 = 25, Bob: 10/2 = 5
				a, b := res.Bills[0], res.Bills[1]
				assertDecimal(t, "25.00", a.Total)
				assertDecimal(t, "5.00", b.Total)
				assertDecimal(t, "30.00", res.GrandTotal)

				require.Len(t, a.Lines, 2)
				assert.Equal(t, "Platter (Subitem)", a.Lines[0].Name)
				assert.Equal(t, int64(1), a.Lines[0].Quantity)
				assert.Equal(t, "s1", a.Lines[0].SubItemID)
				assertDecimal(t, "20.00", a.Lines[0].UnitPrice)
				assertDecimal(t, "20.00", a.Lines[0].Amount)
				assertDecimal(t, "10.00", a.Lines[1].UnitPrice)
				assertDecimal(t, "5.00", a.Lines[1].Amount)

				require.Len(t, b.Lines, 1)
				assert.Equal(t, "s2", b.Lines[0].SubItemID)
			},
		},
		{
			name: "unassigned item is dropped",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{ID: "i1", Name: "Wine", Price: "40", SplitMode: models.SplitEqual},
					{ID: "i2", Name: "Bread", Price: "6", SplitMode: models.SplitEqual, AssignedTo: []string{"p2"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				assert.Empty(t, res.Bills[0].Lines)
				assertDecimal(t, "0", res.Bills[0].Total)
				require.Len(t, res.Bills[1].Lines, 1)
				assert.Equal(t, "Bread", res.Bills[1].Lines[0].Name)
				assertDecimal(t, "6", res.GrandTotal)

				require.Len(t, res.Unallocated, 1)
				assert.Equal(t, "i1", res.Unallocated[0].ItemID)
				assertDecimal(t, "40", res.Unallocated[0].Amount)
				assertDecimal(t, "40", res.UnallocatedTotal())
			},
		},
		{
			name: "unassigned sub-item is dropped",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice},
				Items: []models.LineItem{
					{
						ID: "i1", Name: "Combo", SplitMode: models.SplitCustom,
						SubItems: []models.SubItem{
							{ID: "s1", Name: "Fries", Price: "4"},
							{ID: "s2", Name: "Burger", Price: "9", AssignedTo: []string{"p1"}},
						},
					},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				assertDecimal(t, "9", res.GrandTotal)
				require.Len(t, res.Unallocated, 1)
				assert.Equal(t, "s1", res.Unallocated[0].SubItemID)
				assert.Equal(t, "Fries", res.Unallocated[0].SubItemName)
				assert.Equal(t, "Combo (Subitem)", res.Unallocated[0].Name)
			},
		},
		{
			name: "missing price still produces zero lines for assignees",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{ID: "i1", Name: "Water", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "p2"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				for _, bill := range res.Bills {
					require.Len(t, bill.Lines, 1)
					assertDecimal(t, "0", bill.Lines[0].Amount)
				}
				assertDecimal(t, "0", res.GrandTotal)
				assert.Empty(t, res.Unallocated)
			},
		},
		{
			name: "malformed price and quantity degrade to defaults",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice},
				Items: []models.LineItem{
					{ID: "i1", Name: "Mystery", Price: "twelve", Quantity: "lots", SplitMode: models.SplitEqual, AssignedTo: []string{"p1"}},
					{ID: "i2", Name: "Soup", Price: " 7.5 ", Quantity: "0", SplitMode: models.SplitEqual, AssignedTo: []string{"p1"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				lines := res.Bills[0].Lines
				require.Len(t, lines, 2)
				assertDecimal(t, "0", lines[0].Amount)
				assert.Equal(t, int64(1), lines[0].Quantity)
				assertDecimal(t, "7.5", lines[1].Amount)
				assert.Equal(t, int64(1), lines[1].Quantity)
				assertDecimal(t, "7.5", res.GrandTotal)
			},
		},
		{
			name: "out-of-range exponents degrade to defaults",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{ID: "i1", Name: "Dust", Price: "1e-20000000", Quantity: "1e10000000", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "p2"}},
					{ID: "i2", Name: "Gold", SplitMode: models.SplitCustom, SubItems: []models.SubItem{
						{ID: "s1", Name: "Bar", Price: "1e10000000", AssignedTo: []string{"p2"}},
					}},
					{ID: "i3", Name: "Bread", Price: "4", SplitMode: models.SplitEqual, AssignedTo: []string{"p1"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				require.Len(t, res.Bills[0].Lines, 2)
				assertDecimal(t, "0", res.Bills[0].Lines[0].Amount)
				assert.Equal(t, int64(1), res.Bills[0].Lines[0].Quantity)
				assertDecimal(t, "4", res.Bills[0].Total)
				assertDecimal(t, "0", res.Bills[1].Total)
				assertDecimal(t, "4", res.GrandTotal)
			},
		},
		{
			name: "quantity never scales the amount",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice},
				Items: []models.LineItem{
					{ID: "i1", Name: "Beer", Price: "18", Quantity: "3", SplitMode: models.SplitEqual, AssignedTo: []string{"p1"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				line := res.Bills[0].Lines[0]
				assert.Equal(t, int64(3), line.Quantity)
				assertDecimal(t, "6", line.UnitPrice)
				assertDecimal(t, "18", line.Amount)
			},
		},
		{
			name: "dangling assignee counts towards the divisor but gets nothing",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice},
				Items: []models.LineItem{
					{ID: "i1", Name: "Nachos", Price: "12", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "ghost"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				require.Len(t, res.Bills, 1)
				assertDecimal(t, "6", res.Bills[0].Total)
				assertDecimal(t, "6", res.GrandTotal)
			},
		},
		{
			name: "repeated assignee is counted once",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{ID: "i1", Name: "Cake", Price: "10", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "p2", "p1"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				assert.Len(t, res.Bills[0].Lines, 1)
				assertDecimal(t, "5", res.Bills[0].Total)
				assertDecimal(t, "5", res.Bills[1].Total)
			},
		},
		{
			name: "duplicate roster IDs allocate to the first entry",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, {ID: "p1", Name: "Alice again"}},
				Items: []models.LineItem{
					{ID: "i1", Name: "Tea", Price: "3", SplitMode: models.SplitEqual, AssignedTo: []string{"p1"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				require.Len(t, res.Bills, 2)
				assertDecimal(t, "3", res.Bills[0].Total)
				assert.Empty(t, res.Bills[1].Lines)
				assertDecimal(t, "3", res.GrandTotal)
			},
		},
		{
			name: "unknown split mode behaves as equal",
			receipt: &models.Receipt{
				Participants: []models.Participant{alice, bob},
				Items: []models.LineItem{
					{ID: "i1", Name: "Salad", Price: "8", AssignedTo: []string{"p1", "p2"}},
				},
			},
			validateFunc: func(t *testing.T, res Result) {
				assertDecimal(t, "4", res.Bills[0].Total)
				assertDecimal(t, "4", res.Bills[1].Total)
			},
		},
		{
			name:    "empty roster",
			receipt: &models.Receipt{Items: []models.LineItem{{ID: "i1", Name: "Fries", Price: "3", AssignedTo: []string{"p1"}}}},
			validateFunc: func(t *testing.T, res Result) {
				assert.Empty(t, res.Bills)
				assertDecimal(t, "0", res.GrandTotal)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateFunc(t, ComputeBills(tt.receipt))
		})
	}
}

func TestComputeBills_NilReceipt(t *testing.T) {
	res := ComputeBills(nil)
	assert.NotNil(t, res.Bills)
	assert.Empty(t, res.Bills)
	assert.True(t, res.GrandTotal.IsZero())
	assert.Empty(t, res.Unallocated)
}

func TestComputeBills_EqualSharesSumToPrice(t *testing.T) {
	receipt := &models.Receipt{
		Participants: []models.Participant{alice, bob, charlie},
		Items: []models.LineItem{
			{ID: "i1", Name: "Pitcher", Price: "10.00", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "p2", "p3"}},
		},
	}

	res := ComputeBills(receipt)

	price := decimal.RequireFromString("10.00")
	third := price.Div(decimal.NewFromInt(3))
	sum := decimal.Zero
	for _, bill := range res.Bills {
		require.Len(t, bill.Lines, 1)
		assert.True(t, third.Equal(bill.Lines[0].Amount))
		sum = sum.Add(bill.Lines[0].Amount)
	}
	assertNear(t, price, sum)
	assertNear(t, price, res.GrandTotal)
}

func TestComputeBills_FullyAssignedReconciles(t *testing.T) {
	receipt := &models.Receipt{
		Participants: []models.Participant{alice, bob, charlie},
		Items: []models.LineItem{
			{ID: "i1", Name: "Ramen", Price: "14.90", Quantity: "1", SplitMode: models.SplitEqual, AssignedTo: []string{"p1"}},
			{ID: "i2", Name: "Gyoza", Price: "7.33", Quantity: "6", SplitMode: models.SplitEqual, AssignedTo: []string{"p1", "p2", "p3"}},
			{
				ID: "i3", Name: "Sake", SplitMode: models.SplitCustom,
				SubItems: []models.SubItem{
					{ID: "s1", Name: "Glass 1", Price: "9.10", AssignedTo: []string{"p2", "p3"}},
					{ID: "s2", Name: "Glass 2", Price: "4.01", AssignedTo: []string{"p1", "p2", "p3"}},
				},
			},
		},
	}

	res := ComputeBills(receipt)

	// 14.90 + 7.33 + 9.10 + 4.01
	assertNear(t, decimal.RequireFromString("35.34"), res.GrandTotal)

	sum := decimal.Zero
	for _, bill := range res.Bills {
		sum = sum.Add(bill.Total)
	}
	assert.True(t, sum.Equal(res.GrandTotal))
}

func TestComputeBills_PreservesRosterOrder(t *testing.T) {
	receipt := &models.Receipt{
		Participants: []models.Participant{charlie, alice, bob},
		Items: []models.LineItem{
			{ID: "i1", Name: "Pie", Price: "9", AssignedTo: []string{"p2", "p1", "p3"}},
		},
	}

	res := ComputeBills(receipt)

	require.Len(t, res.Bills, 3)
	assert.Equal(t, "p3", res.Bills[0].Participant.ID)
	assert.Equal(t, "p1", res.Bills[1].Participant.ID)
	assert.Equal(t, "p2", res.Bills[2].Participant.ID)
}

func TestComputeBills_Idempotent(t *testing.T) {
	receipt := &models.Receipt{
		Participants: []models.Participant{alice, bob},
		Items: []models.LineItem{
			{ID: "i1", Name: "Curry", Price: "13.37", Quantity: "2", AssignedTo: []string{"p1", "p2"}},
			{ID: "i2", Name: "Rice", Price: "2", SplitMode: models.SplitCustom, SubItems: []models.SubItem{
				{ID: "s1", Name: "Bowl", Price: "2", AssignedTo: []string{"p2"}},
			}},
		},
	}

	first := ComputeBills(receipt)
	second := ComputeBills(receipt)

	assert.Equal(t, first, second)
}

func TestComputeBills_DoesNotAliasInput(t *testing.T) {
	receipt := &models.Receipt{
		Participants: []models.Participant{alice},
		Items: []models.LineItem{
			{ID: "i1", Name: "Coffee", Price: "3", AssignedTo: []string{"p1"}},
		},
	}

	res := ComputeBills(receipt)
	res.Bills[0].Participant.Name = "changed"
	res.Bills[0].Lines[0].Name = "changed"

	assert.Equal(t, "Alice", receipt.Participants[0].Name)
	assert.Equal(t, "Coffee", receipt.Items[0].Name)
}

func TestComputeBills_Concurrent(t *testing.T) {
	receipt := &models.Receipt{
		Participants: []models.Participant{alice, bob},
		Items: []models.LineItem{
			{ID: "i1", Name: "Tacos", Price: "21", AssignedTo: []string{"p1", "p2"}},
		},
	}
	want := ComputeBills(receipt)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ComputeBills(receipt)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestResult_Owed(t *testing.T) {
	res := ComputeBills(&models.Receipt{
		Participants: []models.Participant{alice, bob},
		Items: []models.LineItem{
			{ID: "i1", Name: "Pasta", Price: "16", AssignedTo: []string{"p1"}},
		},
	})

	owed := res.Owed()

	require.Len(t, owed, 2)
	assert.Equal(t, "p1", owed[0].ParticipantID)
	assertDecimal(t, "16", owed[0].Amount)
	assert.Equal(t, "p2", owed[1].ParticipantID)
	assertDecimal(t, "0", owed[1].Amount)
}
