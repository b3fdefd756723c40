package parameter

// Particle substep defaults
const (
	// SubstepDt is the fixed substep length in seconds
	SubstepDt = 1.0 / 120.0

	// GravityY is the default external acceleration (m/s², stage up is +Y)
	GravityY = -9.81

	// ParticleMass is the point mass shared by all particles (kg)
	ParticleMass = 0.01

	// ShapeCompliance is the inverse stiffness handed to the shape matching
	// resolver; zero means rigid
	ShapeCompliance = 0.0001

	// ShapeDamping is the fraction per second that particle velocity is
	// pulled toward the rigid motion implied by the shape matching target
	ShapeDamping = 0.5

	// StictionFactor bounds tangential collision correction relative to the
	// correction along the contact normal
	StictionFactor = 1.0
)
