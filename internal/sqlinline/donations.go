package sqlinline

const QInsertDonation = `--sql 9d8ef1bb-28ad-4809-a82b-55085c049b81
insert into donations(
  id,
  campaign_id,
  donor_id,
  amount,
  payment_method,
  transaction_id,
  is_anonymous,
  created_at
)
values (
  $1::uuid,
  $2::uuid,
  $3::text,
  $4::numeric,
  $5::text,
  $6::text,
  $7::boolean,
  $8::timestamptz
)
returning id::text;
`

const QListCampaignDonations = `--sql e90f31a3-80af-42bd-bece-9c34a1d2bfd0
select id::text, campaign_id::text, donor_id, amount::text, payment_method, transaction_id, is_anonymous, created_at
from donations
where campaign_id = $1::uuid
order by created_at desc, id desc;
`

const QListDonorDonations = `--sql cf8cf6e1-d4f8-4329-a18d-5b3a65f3b2c6
select id::text, campaign_id::text, donor_id, amount::text, payment_method, transaction_id, is_anonymous, created_at
from donations
where campaign_id = $1::uuid
  and donor_id = $2::text
order by created_at desc, id desc;
`

const QSumDonations = `--sql fc2c05f4-aa78-4b02-9e71-52ddb0609842
select coalesce(sum(amount), 0)::text
from donations;
`
