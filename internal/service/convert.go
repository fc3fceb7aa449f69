package service

import (
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// toReceipt converts a wire receipt to the model. nil stays nil.
func toReceipt(r *api.Receipt) *models.Receipt {
	if r == nil {
		return nil
	}

	participants := make([]models.Participant, len(r.Participants))
	for i, p := range r.Participants {
		participants[i] = models.Participant{ID: p.Id, Name: p.Name}
	}

	items := make([]models.LineItem, len(r.Items))
	for i, item := range r.Items {
		subItems := make([]models.SubItem, len(item.SubItems))
		for j, sub := range item.SubItems {
			subItems[j] = models.SubItem{
				ID:         sub.Id,
				Name:       sub.Name,
				Price:      sub.Price,
				AssignedTo: sub.ParticipantIds,
			}
		}
		items[i] = models.LineItem{
			ID:         item.Id,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			SplitMode:  models.SplitMode(item.SplitMode),
			AssignedTo: item.ParticipantIds,
			SubItems:   subItems,
		}
	}

	return &models.Receipt{
		ID:           r.Id,
		Title:        r.Title,
		Participants: participants,
		Items:        items,
		Tax:          r.Tax,
		Tip:          r.Tip,
	}
}

func toPayments(payments []api.Payment) []models.Payment {
	out := make([]models.Payment, len(payments))
	for i, p := range payments {
		out[i] = models.Payment{ParticipantID: p.ParticipantId, Amount: p.Amount}
	}
	return out
}

func toProtoBills(bills []calculator.Bill) []api.Bill {
	out := make([]api.Bill, len(bills))
	for i, bill := range bills {
		lines := make([]api.BillLine, len(bill.Lines))
		for j, line := range bill.Lines {
			lines[j] = api.BillLine{
				ItemId:    line.ItemID,
				SubItemId: line.SubItemID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Amount:    line.Amount,
			}
		}
		out[i] = api.Bill{
			Participant: api.Participant{Id: bill.Participant.ID, Name: bill.Participant.Name},
			Lines:       lines,
			Total:       bill.Total,
		}
	}
	return out
}

func toProtoUnallocated(entries []calculator.Unallocated) []api.UnallocatedEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]api.UnallocatedEntry, len(entries))
	for i, u := range entries {
		out[i] = api.UnallocatedEntry{
			ItemId:      u.ItemID,
			SubItemId:   u.SubItemID,
			Name:        u.Name,
			SubItemName: u.SubItemName,
			Amount:      u.Amount,
		}
	}
	return out
}

func toProtoExtras(extras []calculator.ExtraShare) []api.ExtraShare {
	out := make([]api.ExtraShare, len(extras))
	for i, e := range extras {
		out[i] = api.ExtraShare{
			ParticipantId: e.Participant.ID,
			Subtotal:      e.Subtotal,
			Tax:           e.Tax,
			Tip:           e.Tip,
			Total:         e.Total,
		}
	}
	return out
}

func toProtoTransfers(transfers []calculator.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{FromId: t.FromID, ToId: t.ToID, Amount: t.Amount}
	}
	return out
}
