package worker

type State string

const (
	StateIdle                State = "IDLE"
	StateReturningToBuilding State = "RETURNING_TO_BUILDING"
	StateProducing           State = "PRODUCING"
	StateCarryingToStorage   State = "CARRYING_TO_STORAGE"
	StateWaitingForStorage   State = "WAITING_FOR_STORAGE"
)

type Event string

const (
	EventAssign        Event = "ASSIGN"
	EventArrived       Event = "ARRIVED"
	EventResourceReady Event = "RESOURCE_READY"
	EventStorageSpace  Event = "STORAGE_SPACE"
)

// Actions are the side effects and guards the machine delegates to. The
// machine itself owns no movement, timers or storage.
type Actions struct {
	GoToBuilding          func()
	StartProduction       func()
	CollectAndGoToStorage func()
	DeliverResource       func()
	StorageHasSpace       func() bool
}

type transition struct {
	guard  func(Actions) bool
	target State
	action func(Actions)
}

type key struct {
	from State
	ev   Event
}

// Candidates are tried in order; the first passing guard wins.
var transitions = map[key][]transition{
	{StateIdle, EventAssign}: {
		{target: StateReturningToBuilding},
	},
	{StateReturningToBuilding, EventArrived}: {
		{target: StateProducing},
	},
	{StateProducing, EventResourceReady}: {
		{target: StateCarryingToStorage},
	},
	{StateCarryingToStorage, EventArrived}: {
		{guard: storageHasSpace, target: StateReturningToBuilding, action: deliverResource},
		{target: StateWaitingForStorage},
	},
	{StateWaitingForStorage, EventStorageSpace}: {
		{target: StateReturningToBuilding, action: deliverResource},
	},
}

var entryActions = map[State]func(Actions){
	StateReturningToBuilding: func(a Actions) { call(a.GoToBuilding) },
	StateProducing:           func(a Actions) { call(a.StartProduction) },
	StateCarryingToStorage:   func(a Actions) { call(a.CollectAndGoToStorage) },
}

func storageHasSpace(a Actions) bool {
	return a.StorageHasSpace != nil && a.StorageHasSpace()
}

func deliverResource(a Actions) { call(a.DeliverResource) }

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// Machine is the worker lifecycle. It starts in IDLE and never returns there.
type Machine struct {
	state   State
	actions Actions
}

func NewMachine(a Actions) *Machine {
	return &Machine{state: StateIdle, actions: a}
}

func (m *Machine) State() State { return m.state }

// Send feeds one event. Events with no transition from the current state are
// dropped and reported as unhandled. Transition actions run before the entry
// action of the target state.
func (m *Machine) Send(ev Event) bool {
	for _, t := range transitions[key{m.state, ev}] {
		if t.guard != nil && !t.guard(m.actions) {
			continue
		}
		if t.action != nil {
			t.action(m.actions)
		}
		m.state = t.target
		if entry := entryActions[t.target]; entry != nil {
			entry(m.actions)
		}
		return true
	}
	return false
}
