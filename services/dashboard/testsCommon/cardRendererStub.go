package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// CardRendererStub -
type CardRendererStub struct {
	RenderCardHandler func(card common.CardView)
	ClearCardsHandler func()
}

// RenderCard -
func (stub *CardRendererStub) RenderCard(card common.CardView) {
	if stub.RenderCardHandler != nil {
		stub.RenderCardHandler(card)
	}
}

// ClearCards -
func (stub *CardRendererStub) ClearCards() {
	if stub.ClearCardsHandler != nil {
		stub.ClearCardsHandler()
	}
}

// IsInterfaceNil -
func (stub *CardRendererStub) IsInterfaceNil() bool {
	return stub == nil
}
