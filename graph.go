package physics2d

// GraphColorCount is the fixed number of solver colors plus the overflow
// bucket. A real Box2D-derived solver uses 12 colors; this
// module keeps the same shape but a smaller count is fine for a 2D-only
// core (colors are an implementation-time tradeoff between parallelism
// and fragmentation, not a correctness knob).
const GraphColorCount = 12

// OverflowColor is the sentinel color index for constraints that could
// not be assigned one of the GraphColorCount colors. It is always processed single-threaded.
const OverflowColor = GraphColorCount

// Color holds one partition of constraints such that no two constraints
// in the color share a body, enabling intra-color
// parallelism without locks.
type Color struct {
	Contacts []ContactSim
	Joints   []JointSim

	// bodySet marks which body indices already have a constraint in this
	// color, so the grouping pass (ConstraintGraph.AddContact/AddJoint)
	// can enforce the no-shared-body invariant.
	bodySet map[uint32]struct{}
}

func newColor() *Color {
	return &Color{bodySet: make(map[uint32]struct{})}
}

// CanAdd reports whether neither bodyA nor bodyB already has a constraint
// in this color.
func (c *Color) CanAdd(bodyA, bodyB uint32) bool {
	_, a := c.bodySet[bodyA]
	_, b := c.bodySet[bodyB]
	return !a && !b
}

func (c *Color) markUsed(bodyA, bodyB uint32) {
	c.bodySet[bodyA] = struct{}{}
	c.bodySet[bodyB] = struct{}{}
}

// ConstraintGraph is the fixed-color-plus-overflow partition of contact
// and joint constraints by shared-body independence: constraints in the
// same color never share a body, so a color's contents can be solved in
// parallel across workers.
type ConstraintGraph struct {
	Colors   [GraphColorCount]*Color
	Overflow Color
}

// NewConstraintGraph allocates an empty graph with all color buckets
// initialized.
func NewConstraintGraph() *ConstraintGraph {
	g := &ConstraintGraph{}
	for i := range g.Colors {
		g.Colors[i] = newColor()
	}
	g.Overflow = Color{bodySet: make(map[uint32]struct{})}
	return g
}

// AddContact assigns a contact to the first color that can take it
// without violating the no-shared-body invariant, falling back to the
// overflow bucket.
func (g *ConstraintGraph) AddContact(c ContactSim) {
	for i := 0; i < GraphColorCount; i++ {
		if g.Colors[i].CanAdd(c.BodyIndexA, c.BodyIndexB) {
			g.Colors[i].markUsed(c.BodyIndexA, c.BodyIndexB)
			g.Colors[i].Contacts = append(g.Colors[i].Contacts, c)
			return
		}
	}
	g.Overflow.Contacts = append(g.Overflow.Contacts, c)
}

// AddJoint assigns a joint the same way AddContact does for contacts.
func (g *ConstraintGraph) AddJoint(j JointSim) {
	for i := 0; i < GraphColorCount; i++ {
		if g.Colors[i].CanAdd(j.BodyIndexA, j.BodyIndexB) {
			g.Colors[i].markUsed(j.BodyIndexA, j.BodyIndexB)
			g.Colors[i].Joints = append(g.Colors[i].Joints, j)
			return
		}
	}
	g.Overflow.Joints = append(g.Overflow.Joints, j)
}

// Clear empties every color and the overflow bucket, keeping backing
// arrays and body-sets allocated across steps.
func (g *ConstraintGraph) Clear() {
	for _, c := range g.Colors {
		c.Contacts = c.Contacts[:0]
		c.Joints = c.Joints[:0]
		for k := range c.bodySet {
			delete(c.bodySet, k)
		}
	}
	g.Overflow.Contacts = g.Overflow.Contacts[:0]
	g.Overflow.Joints = g.Overflow.Joints[:0]
	for k := range g.Overflow.bodySet {
		delete(g.Overflow.bodySet, k)
	}
}

// ActiveColorCount returns the number of colors holding at least one
// contact or joint, used by the Constraint Driver to plan the per-color
// stage count.
func (g *ConstraintGraph) ActiveColorCount() int {
	n := 0
	for _, c := range g.Colors {
		if len(c.Contacts) > 0 || len(c.Joints) > 0 {
			n++
		}
	}
	return n
}

// ActiveColors returns the indices of colors holding at least one
// constraint, in ascending order, for deterministic stage iteration.
func (g *ConstraintGraph) ActiveColors() []int {
	var idx []int
	for i, c := range g.Colors {
		if len(c.Contacts) > 0 || len(c.Joints) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}
