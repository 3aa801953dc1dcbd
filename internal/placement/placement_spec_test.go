package placement_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/placement"
)

var _ = Describe("Generator", func() {
	var (
		gen      *placement.Generator
		clearing geom.Sphere
		ground   geom.Domain
		canopy   geom.Domain
	)

	BeforeEach(func() {
		var err error
		gen = placement.New(2024)
		clearing, err = geom.NewSphere(geom.Vec3{}, 5)
		Expect(err).NotTo(HaveOccurred())
		ground = geom.Square(20, 0)
		canopy = geom.Domain{Min: geom.Vec3{X: -20, Y: 1, Z: -20}, Max: geom.Vec3{X: 20, Y: 6, Z: 20}}
	})

	Context("scattering trees on the ground", func() {
		It("keeps every tree out of the snowman clearing", func() {
			trees, err := gen.Generate(10, ground, clearing)
			Expect(err).NotTo(HaveOccurred())
			Expect(trees).To(HaveLen(10))
			for _, p := range trees {
				Expect(p.DistanceTo(geom.Vec3{})).To(BeNumerically(">=", 5))
				Expect(p.Y).To(BeZero())
			}
		})
	})

	Context("scattering fireflies in the air", func() {
		It("samples heights across the canopy band", func() {
			flies, err := gen.Generate(200, canopy, clearing)
			Expect(err).NotTo(HaveOccurred())
			for _, p := range flies {
				Expect(p.Y).To(BeNumerically(">=", 1))
				Expect(p.Y).To(BeNumerically("<", 6))
				Expect(clearing.Contains(p)).To(BeFalse())
			}
		})
	})

	Context("when the clearing swallows the domain", func() {
		It("fails with an infeasible placement instead of spinning", func() {
			huge, err := geom.NewSphere(geom.Vec3{}, 1000)
			Expect(err).NotTo(HaveOccurred())

			_, err = gen.Sample(ground, huge)
			Expect(err).To(MatchError(placement.ErrPlacementInfeasible))
		})
	})
})
