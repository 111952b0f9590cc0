package sqlinline

const QSelectCampaignFinancials = `--sql a7125783-bc90-4412-9a68-9243a19f4b45
select goal_amount::text, raised_amount::text
from fundraising_campaigns
where id = $1::uuid
limit 1;
`

// QRecomputeRaisedAmount overwrites the stored aggregate with the sum of the
// campaign's donation rows.
const QRecomputeRaisedAmount = `--sql 922e34a1-3383-4930-9ebc-a565a88e6afa
update fundraising_campaigns fc
set raised_amount = coalesce((
      select sum(d.amount)
      from donations d
      where d.campaign_id = fc.id
    ), 0),
    updated_at = now()
where fc.id = $1::uuid
returning fc.raised_amount::text;
`

const QInsertCampaign = `--sql c3f79f86-7bf7-408b-adc8-bc54d5dcad79
insert into fundraising_campaigns(
  id,
  title,
  description,
  goal_amount,
  raised_amount,
  start_date,
  end_date,
  created_by,
  created_at,
  updated_at
)
values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::numeric,
  $5::numeric,
  $6::date,
  $7::date,
  $8::text,
  $9::timestamptz,
  $10::timestamptz
);
`

const QListCampaigns = `--sql 8b69e878-0f1c-47ea-b716-2533b1a6a2f0
select
  fc.id::text,
  fc.title,
  fc.description,
  fc.goal_amount::text,
  fc.raised_amount::text,
  fc.start_date,
  fc.end_date,
  fc.created_by,
  fc.created_at,
  fc.updated_at,
  count(d.id)
from fundraising_campaigns fc
left join donations d on d.campaign_id = fc.id
group by fc.id
order by fc.created_at desc;
`

const QSelectCampaignByID = `--sql b960204e-4f0a-4729-97e5-571525eabf90
select
  fc.id::text,
  fc.title,
  fc.description,
  fc.goal_amount::text,
  fc.raised_amount::text,
  fc.start_date,
  fc.end_date,
  fc.created_by,
  fc.created_at,
  fc.updated_at,
  count(d.id)
from fundraising_campaigns fc
left join donations d on d.campaign_id = fc.id
where fc.id = $1::uuid
group by fc.id;
`

const QUpdateCampaign = `--sql 0acfaeef-ee70-4b53-96df-e56a33334868
update fundraising_campaigns
set title = $2::text,
    description = $3::text,
    goal_amount = $4::numeric,
    start_date = $5::date,
    end_date = $6::date,
    updated_at = $7::timestamptz
where id = $1::uuid;
`

const QDeleteCampaign = `--sql 6e2ec112-e2e8-4522-882c-9e80d81b7342
delete from fundraising_campaigns
where id = $1::uuid;
`
