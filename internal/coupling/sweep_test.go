package coupling

import (
	"errors"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Run", func() {
	var p Params

	BeforeEach(func() {
		p = DefaultParams()
	})

	Context("with the reference scenario", func() {
		var records []Record

		BeforeEach(func() {
			var err error
			records, err = Run(p)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns one record per step", func() {
			Expect(records).To(HaveLen(401))
			Expect(records[0].Step).To(Equal(1))
			Expect(records[400].Step).To(Equal(401))
		})

		It("starts and ends at the expected coupling", func() {
			Expect(records[0].Coupling).To(Equal(0.00132))
			Expect(records[400].Coupling).To(BeNumerically("~", 0.00192, 1e-15))
		})

		It("builds the coupling as an arithmetic sequence", func() {
			for i, r := range records {
				Expect(r.Coupling).To(Equal(p.InitialCoupling + p.CouplingIncrement*float64(i)))
				if i > 0 {
					Expect(r.Coupling).To(BeNumerically(">", records[i-1].Coupling))
				}
			}
		})

		It("satisfies the eigen equation for every pair", func() {
			for _, r := range records {
				m, h := p.Lossy(r.Coupling), p.Lossless(r.Coupling)
				for i := 0; i < 2; i++ {
					Expect(m.Residual(r.Lossy.Values[i], r.Lossy.Vectors[i])).To(BeNumerically("<", 1e-9))
					Expect(h.Residual(r.Lossless.Values[i], r.Lossless.Vectors[i])).To(BeNumerically("<", 1e-9))
				}
			}
		})

		It("stores the fixed energy terms on every record", func() {
			for _, r := range records {
				Expect(r.BaseEnergy).To(Equal(p.BaseEnergy))
				Expect(r.OtherEnergy).To(Equal(p.OtherEnergy))
				Expect(r.EnergyGap).To(Equal(p.BaseEnergy - p.OtherEnergy))
			}
		})

		It("keeps the lossy real parts coalesced below the exceptional point", func() {
			for _, r := range records {
				gap := math.Abs(real(r.Lossy.Values[0]) - real(r.Lossy.Values[1]))
				Expect(gap).To(BeNumerically("<", 1e-12))
			}
		})

		It("narrows the lossy imaginary gap as coupling grows", func() {
			prev := math.Inf(1)
			for _, r := range records {
				gap := math.Abs(imag(r.Lossy.Values[0]) - imag(r.Lossy.Values[1]))
				Expect(gap).To(BeNumerically("<", prev))
				prev = gap
			}
		})

		It("is deterministic", func() {
			again, err := Run(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(records))
		})
	})

	Context("with zero loss increment", func() {
		BeforeEach(func() {
			p.LossIncrement = 0
		})

		It("makes the lossy and lossless decompositions agree", func() {
			records, err := Run(p)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range records {
				for i := 0; i < 2; i++ {
					Expect(cmplx.Abs(r.Lossy.Values[i] - r.Lossless.Values[i])).To(BeNumerically("<", 1e-9))
					for j := 0; j < 2; j++ {
						Expect(cmplx.Abs(r.Lossy.Vectors[i][j] - r.Lossless.Vectors[i][j])).To(BeNumerically("<", 1e-9))
					}
				}
			}
		})

		It("gives Hopf coefficients summing to one", func() {
			records, err := Run(p)
			Expect(err).NotTo(HaveOccurred())
			s := Extract(records)
			for i := range s.HopfC {
				Expect(cmplx.Abs(s.HopfC[i] + s.HopfE[i] - 1)).To(BeNumerically("<", 1e-9))
			}
		})

		It("gives Hopf coefficients summing to one for detuned modes", func() {
			p.BaseEnergy = complex(1.372, -0.00009)
			records, err := Run(p)
			Expect(err).NotTo(HaveOccurred())
			s := Extract(records)
			for i := range s.HopfC {
				Expect(cmplx.Abs(s.HopfC[i] + s.HopfE[i] - 1)).To(BeNumerically("<", 1e-9))
			}
		})
	})

	Context("with a single step", func() {
		It("returns the initial coupling", func() {
			p.StepCount = 1
			records, err := Run(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Coupling).To(Equal(p.InitialCoupling))
		})

		It("accepts a zero increment", func() {
			p.StepCount = 1
			p.CouplingIncrement = 0
			_, err := Run(p)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	DescribeTable("rejects invalid parameters",
		func(mutate func(*Params), want error) {
			mutate(&p)
			records, err := Run(p)
			Expect(records).To(BeNil())
			Expect(errors.Is(err, want)).To(BeTrue())

			var pe *ParamError
			Expect(errors.As(err, &pe)).To(BeTrue())
		},
		Entry("zero steps", func(p *Params) { p.StepCount = 0 }, ErrStepCount),
		Entry("negative steps", func(p *Params) { p.StepCount = -3 }, ErrStepCount),
		Entry("NaN base energy", func(p *Params) { p.BaseEnergy = cmplx.NaN() }, ErrNonFinite),
		Entry("Inf other energy", func(p *Params) { p.OtherEnergy = cmplx.Inf() }, ErrNonFinite),
		Entry("NaN loss", func(p *Params) { p.LossIncrement = complex(0, math.NaN()) }, ErrNonFinite),
		Entry("Inf initial coupling", func(p *Params) { p.InitialCoupling = math.Inf(1) }, ErrNonFinite),
		Entry("NaN increment", func(p *Params) { p.CouplingIncrement = math.NaN() }, ErrNonFinite),
		Entry("zero increment", func(p *Params) { p.CouplingIncrement = 0 }, ErrCouplingIncrement),
		Entry("negative increment", func(p *Params) { p.CouplingIncrement = -1e-6 }, ErrCouplingIncrement),
	)
})

var _ = Describe("Step", func() {
	It("matches the record Run produces at the same index", func() {
		p := DefaultParams()
		records, err := Run(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(Step(p, 200)).To(Equal(records[199]))
	})
})
