package common

// CardRenderer paints metric cards
type CardRenderer interface {
	RenderCard(card CardView)
	ClearCards()
	IsInterfaceNil() bool
}

// GraphRenderer paints chart surfaces
type GraphRenderer interface {
	RenderGraph(graph GraphView)
	IsInterfaceNil() bool
}

// Renderer paints both cards and graphs
type Renderer interface {
	CardRenderer
	RenderGraph(graph GraphView)
}

// SessionRenderer paints the session-held state
type SessionRenderer interface {
	RenderSession(snapshot SessionSnapshot)
	IsInterfaceNil() bool
}
