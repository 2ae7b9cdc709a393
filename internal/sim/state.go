package sim

// LinkState is the connection lifecycle of the sensor session.
type LinkState int

const (
	Disconnected LinkState = iota
	Connecting
	Connected
)

func (s LinkState) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	default:
		return "Disconnected"
	}
}

// Direction is the coarse heading shown on the navigation panel.
type Direction int

const (
	Stationary Direction = iota
	Approaching
	Receding
)

func (d Direction) String() string {
	switch d {
	case Approaching:
		return "APPROACHING"
	case Receding:
		return "RECEDING"
	default:
		return "STATIONARY"
	}
}

// DilationBand buckets the dilation factor for colouring and narration.
type DilationBand int

const (
	BandNominal DilationBand = iota
	BandSlight
	BandModerate
	BandSevere
	BandCritical
	BandHorizon
)

// BandFor returns the band for a dilation factor.
func BandFor(factor float64, horizon bool) DilationBand {
	switch {
	case horizon || factor >= 4900:
		return BandHorizon
	case factor > 1000:
		return BandCritical
	case factor > 100:
		return BandSevere
	case factor > 10:
		return BandModerate
	case factor > 1.1:
		return BandSlight
	default:
		return BandNominal
	}
}

// RenderParams is the per-frame bundle handed to the drawing surface.
type RenderParams struct {
	DisplayDistance    float64
	DilationFactor     float64
	Speed              float64
	Approaching        bool
	HorizonFlashActive bool
}

// PresentationState is the consumer-facing snapshot of the simulation.
type PresentationState struct {
	PhysicalState
	MotionState
	ClockState

	Warning      bool
	Critical     bool
	HorizonFlash bool

	Direction        Direction
	Band             DilationBand
	ProximityPercent float64 // 0 at max distance, 100 at the horizon

	Link       LinkState
	Device     string
	Status     string
	Error      string
	SensorCm   float64
	HasReading bool
}

// Render extracts the drawing parameters.
func (s PresentationState) Render() RenderParams {
	return RenderParams{
		DisplayDistance:    s.DisplayDistance,
		DilationFactor:     s.DilationFactor,
		Speed:              s.Speed,
		Approaching:        s.Approaching,
		HorizonFlashActive: s.HorizonFlash,
	}
}
